package reconciler

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
)

// ModuleParams 模块依赖
type ModuleParams struct {
	fx.In

	Config    *config.Config `optional:"true"`
	Store     interfaces.EndpointStore
	Prober    interfaces.Prober
	Discovery interfaces.Discovery
	Clock     clock.Clock         `optional:"true"`
	Metrics   *metrics.Reconciler `optional:"true"`
}

// ConfigFrom 从全局配置提取状态机配置
func ConfigFrom(c *config.Config) Config {
	cfg := DefaultConfig()
	if c == nil {
		return cfg
	}
	cfg.ServiceType = c.ServiceType
	cfg.ProbeTimeout = c.Client.Liveness.ProbeTimeout
	cfg.DiscoveryTimeout = c.Client.Reconciler.DiscoveryTimeout
	cfg.ReprobeInterval = c.Client.Reconciler.ReprobeInterval
	cfg.ReprobeFailures = c.Client.Reconciler.ReprobeFailures
	cfg.DiscoveryRetryInterval = c.Client.Reconciler.DiscoveryRetryInterval
	return cfg
}

// Provide 创建状态机
func Provide(p ModuleParams) (*Reconciler, error) {
	return New(ConfigFrom(p.Config), Params{
		Store:     p.Store,
		Prober:    p.Prober,
		Discovery: p.Discovery,
		Clock:     p.Clock,
		Metrics:   p.Metrics,
	})
}

// Module 返回 fx 模块配置
//
// 生命周期:
//   - OnStart: 启动 run 协程
//   - OnStop: 停止 run 协程
func Module() fx.Option {
	return fx.Module("reconciler",
		fx.Provide(
			Provide,
			fx.Annotate(DebugRoute, fx.ResultTags(`group:"debug_routes"`)),
		),
		fx.Invoke(registerLifecycle),
	)
}

func registerLifecycle(lc fx.Lifecycle, r *Reconciler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// OnStart 的 ctx 在启动完成后失效，run 协程使用独立的上下文
			return r.Start(context.Background())
		},
		OnStop: func(_ context.Context) error {
			r.Stop()
			return nil
		},
	})
}
