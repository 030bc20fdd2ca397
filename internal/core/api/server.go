package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/IFIR649/react-pc-mobile/internal/core/items"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/internal/util/addrutil"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
)

var log = logger.Logger("api")

// maxBodyBytes 请求体上限
const maxBodyBytes = 64 << 10

// ============================================================================
//                              配置
// ============================================================================

// Config 服务配置
type Config struct {
	// Host 监听主机，为空表示所有网卡
	Host string

	// Port 监听端口，0 表示随机
	Port int

	// Name 服务端名称
	Name string

	// ServiceType 组播服务类型，写入 /server-info
	ServiceType string

	// RPS 每秒请求数，0 表示不限速
	RPS float64

	// Burst 突发容量
	Burst int

	// ShutdownTimeout 优雅关闭超时
	ShutdownTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Port:            protocolids.DefaultPort,
		Name:            "pclink",
		ServiceType:     protocolids.ServiceType,
		RPS:             50,
		Burst:           100,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Deps 服务依赖
type Deps struct {
	Items *items.Store

	// Gatherer /metrics 数据源，为空时不注册该路由
	Gatherer prometheus.Gatherer

	// Metrics 请求指标，为空时不注册
	Metrics *metrics.API

	// Clock 时钟，为空时使用系统时钟
	Clock clock.Clock

	// LocalIPs 本机地址枚举，为空时使用 addrutil.LocalIPv4s
	LocalIPs func(addrutil.Filter) ([]net.IP, error)
}

// ============================================================================
//                              Server
// ============================================================================

// Server 服务端 HTTP 服务
type Server struct {
	cfg     Config
	items   *items.Store
	gather  prometheus.Gatherer
	metrics *metrics.API
	clock   clock.Clock
	ips     func(addrutil.Filter) ([]net.IP, error)
	limiter *rate.Limiter
	handler http.Handler

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New 创建服务
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Items == nil {
		return nil, errors.New("api: items store required")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("api: port %d out of range", cfg.Port)
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewAPI(nil)
	}
	if deps.LocalIPs == nil {
		deps.LocalIPs = addrutil.LocalIPv4s
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	s := &Server{
		cfg:     cfg,
		items:   deps.Items,
		gather:  deps.Gatherer,
		metrics: deps.Metrics,
		clock:   deps.Clock,
		ips:     deps.LocalIPs,
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	if n, err := s.items.Count(); err == nil {
		s.metrics.Items.Set(float64(n))
	}
	s.handler = s.routes()
	return s, nil
}

// Handler 返回完整的 HTTP 处理器
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start 开始监听
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", addr, err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP 服务异常退出", "err", err)
		}
	}()

	log.Info("HTTP 服务已启动", "addr", ln.Addr().String())
	return nil
}

// Stop 优雅关闭
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	if err != nil {
		log.Error("关闭 HTTP 服务失败", "err", err)
		return err
	}
	log.Info("HTTP 服务已停止")
	return nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Port 返回实际监听端口
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return tcp.Port
		}
	}
	return s.cfg.Port
}

// URLs 返回所有可供客户端连接的 http://<ip>:<port>
func (s *Server) URLs() []string {
	port := strconv.Itoa(s.Port())
	ips, err := s.ips(addrutil.Filter{})
	if err != nil {
		log.Warn("枚举本机地址失败", "err", err)
		return []string{}
	}
	urls := make([]string, 0, len(ips))
	for _, ip := range ips {
		urls = append(urls, "http://"+net.JoinHostPort(ip.String(), port))
	}
	return urls
}
