package product

import "go.uber.org/fx"

// Module registers the product repository with Fx.
var Module = fx.Provide(NewRepository)
