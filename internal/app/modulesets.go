// Package app 提供模块集合清单
//
// modulesets.go 集中维护"哪些模块属于哪个角色"，是 Bootstrap 组装的唯一模块来源。
package app

import (
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/core/api"
	"github.com/IFIR649/react-pc-mobile/internal/core/discovery/mdns"
	"github.com/IFIR649/react-pc-mobile/internal/core/endpointstore"
	"github.com/IFIR649/react-pc-mobile/internal/core/items"
	"github.com/IFIR649/react-pc-mobile/internal/core/itemsclient"
	"github.com/IFIR649/react-pc-mobile/internal/core/liveness"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/internal/core/reconciler"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage"
)

// ============================================================================
//                              公共模块
// ============================================================================

// FoundationModules 基础层模块组合
//
// 指标 Registry 与指定角色的存储引擎，两个角色都会加载。
func FoundationModules(role string) fx.Option {
	return fx.Options(
		metrics.Module(),
		storage.Module(role),
	)
}

// ============================================================================
//                              客户端
// ============================================================================

// ClientModules 客户端模块组合（不含发现通道）
func ClientModules() fx.Option {
	return fx.Options(
		fx.Provide(
			metrics.NewReconciler,
			metrics.NewDiscovery,
		),
		endpointstore.Module(),
		liveness.Module(),
		reconciler.Module(),
		itemsclient.Module(),
	)
}

// DiscoveryModule 组播发现模块
//
// 由 Bootstrap 在未注入自定义发现通道时加载。
func DiscoveryModule() fx.Option {
	return mdns.BrowserModule()
}

// MetricsEndpointModule 客户端指标监听
//
// 由 Bootstrap 根据 config.Client.MetricsAddr 决定是否加载。
func MetricsEndpointModule(addr string) fx.Option {
	return metrics.ServerModule(addr)
}

// ============================================================================
//                              服务端
// ============================================================================

// ServerModules 服务端模块组合
//
// API 必须先于广播模块装配，广播启动时从 API 读取实际端口。
func ServerModules() fx.Option {
	return fx.Options(
		fx.Provide(metrics.NewAPI),
		items.Module(),
		api.Module(),
		fx.Provide(func(s *api.Server) mdns.PortSource { return s }),
		AdvertiseModule(),
	)
}

// AdvertiseModule 服务广播模块
//
// 始终装配；config.Server.Advertise.Enabled 为 false 时不启动。
func AdvertiseModule() fx.Option {
	return mdns.AdvertiserModule()
}
