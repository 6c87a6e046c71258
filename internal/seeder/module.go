package seeder

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the seeder.
var Module = fx.Provide(New)

// Hook wires the seed-on-empty check into process startup. It runs after
// the database connection hook, so the schema already exists. CLI commands
// that drive the seeder explicitly skip this hook.
var Hook = fx.Invoke(func(lc fx.Lifecycle, s *Seeder) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.EnsureSeeded(ctx)
		},
	})
})
