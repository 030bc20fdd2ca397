package api

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/items"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
)

// Params 模块依赖
type Params struct {
	fx.In

	Config   *config.Config
	Items    *items.Store
	Gatherer prometheus.Gatherer `optional:"true"`
	Metrics  *metrics.API        `optional:"true"`
	Clock    clock.Clock         `optional:"true"`
}

// ConfigFrom 从全局配置提取服务配置
func ConfigFrom(c *config.Config) Config {
	cfg := DefaultConfig()
	cfg.Host = c.Server.Host
	cfg.Port = c.Server.Port
	cfg.Name = c.Server.DisplayName()
	cfg.ServiceType = c.ServiceType
	cfg.RPS = c.Server.RateLimit.RPS
	cfg.Burst = c.Server.RateLimit.Burst
	cfg.ShutdownTimeout = c.Server.ShutdownTimeout
	return cfg
}

// Provide 创建 HTTP 服务
func Provide(p Params) (*Server, error) {
	return New(ConfigFrom(p.Config), Deps{
		Items:    p.Items,
		Gatherer: p.Gatherer,
		Metrics:  p.Metrics,
		Clock:    p.Clock,
	})
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(Provide),
		fx.Invoke(registerLifecycle),
	)
}

func registerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop: func(_ context.Context) error {
			return s.Stop()
		},
	})
}
