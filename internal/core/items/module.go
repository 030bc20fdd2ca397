package items

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
)

// Params 模块依赖
type Params struct {
	fx.In

	Engine engine.Engine
	Clock  clock.Clock `optional:"true"`
}

// Module 提供 *Store
func Module() fx.Option {
	return fx.Module("items",
		fx.Provide(func(p Params) *Store { return New(p.Engine, p.Clock) }),
	)
}
