package product

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	coreauth "github.com/Additional-Code/playground/internal/auth"
)

// Module wires HTTP product handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(func(e *echo.Echo, h *Handler, tokens *coreauth.TokenService) {
		Register(e, h, tokens)
	}),
)
