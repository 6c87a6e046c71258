package order

import "go.uber.org/fx"

// Module registers the order repository with Fx.
var Module = fx.Provide(NewRepository)
