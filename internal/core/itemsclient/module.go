package itemsclient

import (
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/reconciler"
)

// Params 模块依赖
type Params struct {
	fx.In

	Config     *config.Config `optional:"true"`
	Reconciler *reconciler.Reconciler
}

// Module 提供 *Client，地址来自连接状态机
func Module() fx.Option {
	return fx.Module("itemsclient",
		fx.Provide(func(p Params) *Client {
			timeout := DefaultTimeout
			if p.Config != nil {
				timeout = p.Config.Client.Items.RequestTimeout
			}
			return New(p.Reconciler, nil, timeout)
		}),
	)
}
