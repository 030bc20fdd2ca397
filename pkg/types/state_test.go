package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionStateStatus(t *testing.T) {
	ep := MustParseEndpoint("http://192.168.1.50:4310")

	tests := []struct {
		name  string
		state ConnectionState
		want  string
	}{
		{"空闲", ConnectionState{Kind: StateIdle}, StatusTryCode},
		{"查找中", ConnectionState{Kind: StateSearching}, StatusSearching},
		{"查找超时提示配对码", ConnectionState{Kind: StateSearching, HintUseCode: true}, StatusTryCode},
		{"验证中", ConnectionState{Kind: StateProbing, Candidate: Candidate{Endpoint: ep}}, StatusValidating},
		{"已连接", ConnectionState{Kind: StateConnected, Endpoint: ep}, "Connected to http://192.168.1.50:4310"},
		{"失败", ConnectionState{Kind: StateFailed, Reason: "stopped"}, StatusTryCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Status())
		})
	}
}

func TestStateKindString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "probing", StateProbing.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", StateKind(42).String())
	assert.Equal(t, "code", SourceCode.String())
}

func TestServiceAdvertisementTXT(t *testing.T) {
	ad := ServiceAdvertisement{
		Metadata: map[string]string{"scheme": "http", "addrs": "10.0.0.2,10.0.0.3", "name": "desk"},
	}
	txt := ad.TXT()
	assert.Equal(t, []string{"addrs=10.0.0.2,10.0.0.3", "name=desk", "scheme=http"}, txt)

	md := ParseTXT(append(txt, "NAME=other", "flag", "=novalue"))
	assert.Equal(t, "desk", md["name"])
	assert.Equal(t, "", md["flag"])
	assert.Len(t, md, 4)
}
