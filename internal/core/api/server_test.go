package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IFIR649/react-pc-mobile/internal/core/items"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine/badger"
	"github.com/IFIR649/react-pc-mobile/internal/util/addrutil"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, mutate ...func(*Config)) (*Server, *metrics.API) {
	t.Helper()
	ec := engine.DefaultConfig(filepath.Join(t.TempDir(), "db"))
	ec.GCInterval = 0
	eng, err := badger.New(ec)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	clk := clock.NewMock()
	clk.Set(testNow)

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Name = "Desk"
	cfg.RPS = 0
	for _, m := range mutate {
		m(&cfg)
	}

	reg := metrics.NewRegistry()
	m := metrics.NewAPI(reg)
	s, err := New(cfg, Deps{
		Items:    items.New(eng, clk),
		Gatherer: reg,
		Metrics:  m,
		Clock:    clk,
		LocalIPs: func(addrutil.Filter) ([]net.IP, error) {
			return []net.IP{net.ParseIP("192.168.1.50").To4(), net.ParseIP("10.0.0.2").To4()}, nil
		},
	})
	require.NoError(t, err)
	return s, m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, m := newTestServer(t)
	rec := do(t, s.Handler(), "GET", "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode[types.HealthResponse](t, rec)
	assert.True(t, body.OK)
	assert.True(t, testNow.Equal(body.Time))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET /health", "200")))
}

func TestServerInfo(t *testing.T) {
	s, _ := newTestServer(t, func(c *Config) { c.Port = 4310 })
	rec := do(t, s.Handler(), "GET", "/server-info", "")

	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[types.ServerInfo](t, rec)
	assert.True(t, info.OK)
	assert.Equal(t, "Desk", info.Name)
	assert.Equal(t, "_pclink._tcp", info.Type)
	assert.Equal(t, 4310, info.Port)
	assert.Equal(t, []string{"http://192.168.1.50:4310", "http://10.0.0.2:4310"}, info.URLs)
}

func TestItems(t *testing.T) {
	s, m := newTestServer(t)
	h := s.Handler()

	t.Run("新建", func(t *testing.T) {
		rec := do(t, h, "POST", "/items", `{"title":"Buy milk"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		it := decode[types.ItemResponse](t, rec).Item
		assert.Equal(t, "Buy milk", it.Title)
		assert.NotEmpty(t, it.ID)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Items))
	})

	t.Run("列表", func(t *testing.T) {
		rec := do(t, h, "GET", "/items", "")
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[types.ItemListResponse](t, rec)
		assert.True(t, list.OK)
		require.Len(t, list.Items, 1)
	})

	t.Run("修改与删除", func(t *testing.T) {
		it := decode[types.ItemResponse](t, do(t, h, "POST", "/items", `{"title":"draft"}`)).Item

		rec := do(t, h, "PUT", "/items/"+it.ID, `{"title":"final"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "final", decode[types.ItemResponse](t, rec).Item.Title)

		rec = do(t, h, "DELETE", "/items/"+it.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, h, "DELETE", "/items/"+it.ID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, decode[types.ErrorResponse](t, rec).OK)
	})

	t.Run("无效请求", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/items", `{"title":"  "}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/items", `not json`).Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, "PUT", "/items/missing", `{"title":"x"}`).Code)
		assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, "PATCH", "/items", "").Code)
	})

	t.Run("跨域预检", func(t *testing.T) {
		rec := do(t, h, "OPTIONS", "/items", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimit(t *testing.T) {
	s, m := newTestServer(t, func(c *Config) {
		c.RPS = 0.001
		c.Burst = 2
	})
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/items", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/items", "").Code)
	rec := do(t, h, "GET", "/items", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Limited))

	// 存活探测不限速
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/health", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	do(t, h, "GET", "/health", "")

	rec := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pclink_api_requests_total{code="200",route="GET /health"} 1`)
}

func TestServer_StartStop(t *testing.T) {
	s, _ := newTestServer(t)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.NotZero(t, s.Port())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestCompression(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	for i := 0; i < 40; i++ {
		rec := do(t, h, http.MethodPost, "/items", `{"title":"a reasonably long shopping list entry number `+strconv.Itoa(i)+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("声明 gzip 时压缩", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		var resp types.ItemListResponse
		require.NoError(t, json.NewDecoder(zr).Decode(&resp))
		assert.Len(t, resp.Items, 40)
	})

	t.Run("未声明时不压缩", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/items", "")
		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Len(t, decode[types.ItemListResponse](t, rec).Items, 40)
	})
}
