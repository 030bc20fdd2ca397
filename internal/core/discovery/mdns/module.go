package mdns

import (
	"context"

	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// BrowserParams 发现模块依赖
type BrowserParams struct {
	fx.In

	Config  *config.Config     `optional:"true"`
	Metrics *metrics.Discovery `optional:"true"`
}

// BrowserResult 发现模块输出
type BrowserResult struct {
	fx.Out

	Discovery interfaces.Discovery
}

// ProvideBrowser 创建发现通道
func ProvideBrowser(p BrowserParams) (BrowserResult, error) {
	cfg := DefaultBrowserConfig()
	if p.Config != nil {
		d := p.Config.Client.Discovery
		cfg.QueryInterval = d.QueryInterval
		cfg.QueryTimeout = d.QueryTimeout
		cfg.DedupeSize = d.DedupeSize
		cfg.Interface = d.Interface
		cfg.DisableIPv6 = d.DisableIPv6
	}
	b, err := NewBrowser(cfg, WithMetrics(p.Metrics))
	if err != nil {
		return BrowserResult{}, err
	}
	return BrowserResult{Discovery: b}, nil
}

// BrowserModule 客户端发现模块
func BrowserModule() fx.Option {
	return fx.Module("discovery/mdns/browser",
		fx.Provide(ProvideBrowser),
	)
}

// AdvertiserParams 广播模块依赖
type AdvertiserParams struct {
	fx.In

	Config *config.Config
	Port   PortSource `optional:"true"`
}

// ProvideAdvertiser 根据服务端配置创建广播发布器
func ProvideAdvertiser(p AdvertiserParams) (*Advertiser, error) {
	srv := p.Config.Server
	ad := types.ServiceAdvertisement{
		Name:        srv.DisplayName(),
		ServiceType: p.Config.ServiceType,
		Port:        srv.Port,
		Metadata:    srv.Advertise.Metadata,
	}
	cfg := DefaultAdvertiserConfig()
	cfg.Interface = srv.Advertise.Interface
	var opts []AdvertiserOption
	if p.Port != nil {
		opts = append(opts, WithPortSource(p.Port))
	}
	return NewAdvertiser(ad, cfg, opts...)
}

// AdvertiserModule 服务端广播模块
//
// Advertise.Enabled 为 false 时只构造不启动。
func AdvertiserModule() fx.Option {
	return fx.Module("discovery/mdns/advertiser",
		fx.Provide(ProvideAdvertiser),
		fx.Invoke(registerAdvertiserLifecycle),
	)
}

func registerAdvertiserLifecycle(lc fx.Lifecycle, cfg *config.Config, a *Advertiser) {
	if !cfg.Server.Advertise.Enabled {
		log.Info("服务广播已禁用")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return a.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return a.Stop()
		},
	})
}
