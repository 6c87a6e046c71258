package auth

import "go.uber.org/fx"

// Module provides the credential hasher and token service to Fx.
var Module = fx.Provide(
	NewHasher,
	NewTokenService,
)
