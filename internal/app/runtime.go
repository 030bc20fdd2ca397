package app

import (
	"context"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/api"
	"github.com/IFIR649/react-pc-mobile/internal/core/discovery/mdns"
	"github.com/IFIR649/react-pc-mobile/internal/core/itemsclient"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/internal/core/reconciler"
)

// Runtime 表示一个已通过 fx 组装完成的运行时
//
// 客户端运行时只填充 Reconciler/Items（及可选的 MetricsServer），
// 服务端运行时只填充 API/Advertiser。
type Runtime struct {
	Role   string
	Config *config.Config

	Reconciler    *reconciler.Reconciler
	Items         *itemsclient.Client
	MetricsServer *metrics.Server

	API        *api.Server
	Advertiser *mdns.Advertiser

	stop func(ctx context.Context) error
}

// Stop 停止运行时（触发 fx 生命周期 OnStop）
func (r *Runtime) Stop(ctx context.Context) error {
	if r.stop == nil {
		return nil
	}
	return r.stop(ctx)
}
