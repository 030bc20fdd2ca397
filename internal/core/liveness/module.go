package liveness

import (
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.Config `optional:"true"`
}

// ModuleOutput 模块输出服务
type ModuleOutput struct {
	fx.Out

	Prober interfaces.Prober
}

// ProvideServices 提供探测器
func ProvideServices(input ModuleInput) ModuleOutput {
	cfg := DefaultConfig()
	if input.Config != nil {
		cfg.MaxBodyBytes = input.Config.Client.Liveness.MaxBodyBytes
	}
	return ModuleOutput{Prober: New(cfg)}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("liveness",
		fx.Provide(ProvideServices),
	)
}
