package protocolids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceType(t *testing.T) {
	assert.True(t, strings.HasPrefix(ServiceType, "_"))
	assert.True(t, strings.HasSuffix(ServiceType, "._tcp"))
	assert.True(t, strings.HasSuffix(ServiceDomain, "."))
}

func TestPaths(t *testing.T) {
	for _, p := range []string{PathHealth, PathServerInfo, PathItems, PathMetrics} {
		assert.True(t, strings.HasPrefix(p, "/"), p)
	}
}
