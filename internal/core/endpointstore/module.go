package endpointstore

import (
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
)

// Module 提供 interfaces.EndpointStore
func Module() fx.Option {
	return fx.Module("endpointstore",
		fx.Provide(
			fx.Annotate(
				func(eng engine.Engine) *Store { return New(eng) },
				fx.As(new(interfaces.EndpointStore)),
			),
		),
	)
}
