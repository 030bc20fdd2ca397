package pclink

import (
	"context"
	"sync"

	"github.com/IFIR649/react-pc-mobile/internal/app"
	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/oobcode"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// Server PC 端服务
//
// Start 后监听 HTTP，并在开启广播时通过 mDNS 发布自己的地址。
type Server struct {
	bootstrap *app.Bootstrap
	rt        *app.Runtime

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewServer 创建服务端（不启动）
func NewServer(opts ...Option) (*Server, error) {
	o, cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	bopts := []app.BootstrapOption{app.WithConfig(cfg)}
	if o.clock != nil {
		bopts = append(bopts, app.WithClock(o.clock))
	}

	b := app.NewBootstrap(config.RoleServer, bopts...)
	rt, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Server{bootstrap: b, rt: rt}, nil
}

// Start 开始监听并广播
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}
	if _, err := s.bootstrap.Start(ctx); err != nil {
		return err
	}
	s.started = true
	return nil
}

// Stop 撤销广播并关闭 HTTP 服务
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if !s.started {
		return nil
	}
	return s.rt.Stop(ctx)
}

// Name 返回服务端名称
func (s *Server) Name() string {
	return s.rt.Config.Server.DisplayName()
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	return s.rt.API.Addr()
}

// Port 返回实际监听端口
func (s *Server) Port() int {
	return s.rt.API.Port()
}

// Instance 返回 mDNS 实例名，未广播时为空
func (s *Server) Instance() string {
	return s.rt.Advertiser.Instance()
}

// URLs 返回所有可供客户端连接的地址
func (s *Server) URLs() []string {
	return s.rt.API.URLs()
}

// Codes 为每个地址生成配对码负载
func (s *Server) Codes() ([][]byte, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil, ErrNotStarted
	}

	urls := s.URLs()
	codes := make([][]byte, 0, len(urls))
	for _, u := range urls {
		ep, err := types.ParseEndpoint(u)
		if err != nil {
			return nil, err
		}
		code, err := oobcode.ForEndpoint(ep, s.Name())
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
