package category

import "go.uber.org/fx"

// Module registers the category repository with Fx.
var Module = fx.Provide(NewRepository)
