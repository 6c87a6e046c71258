package user

import "go.uber.org/fx"

// Module registers the user repository with Fx.
var Module = fx.Provide(NewRepository)
