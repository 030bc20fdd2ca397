package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
)

var log = logger.Logger("metrics")

// Route 挂载到指标服务上的额外调试路由
type Route struct {
	// Pattern ServeMux 模式，例如 "GET /debug/state"
	Pattern string
	Handler http.Handler
}

// Server 独立的 /metrics 与 /debug 监听
//
// 客户端没有自己的 HTTP 服务，需要暴露指标时使用它。
type Server struct {
	addr    string
	handler http.Handler

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer 创建指标服务
func NewServer(addr string, g prometheus.Gatherer, routes ...Route) *Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", Handler(g))

	// pprof 端点
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	for _, r := range routes {
		if r.Pattern == "" || r.Handler == nil {
			continue
		}
		mux.Handle(r.Pattern, r.Handler)
	}
	return &Server{addr: addr, handler: mux}
}

// Start 开始监听
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics: listen %s: %w", s.addr, err)
	}
	s.listener = ln
	s.server = &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("指标服务异常退出", "err", err)
		}
	}()
	log.Info("指标服务已启动", "addr", ln.Addr().String())
	return nil
}

// Stop 关闭监听
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ServerParams 指标服务依赖
type ServerParams struct {
	fx.In

	Gatherer prometheus.Gatherer
	Routes   []Route `group:"debug_routes"`
}

// ServerModule 在 addr 上暴露 /metrics 与 /debug
//
// 其他模块以 group:"debug_routes" 提供 Route 即可挂载额外路由。
func ServerModule(addr string) fx.Option {
	return fx.Module("metrics/server",
		fx.Provide(func(p ServerParams) *Server { return NewServer(addr, p.Gatherer, p.Routes...) }),
		fx.Invoke(func(lc fx.Lifecycle, s *Server) {
			lc.Append(fx.Hook{OnStart: s.Start, OnStop: s.Stop})
		}),
	)
}
