package admin

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	coreauth "github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/presentation/http/response"
	service "github.com/Additional-Code/playground/internal/service/admin"
	"github.com/Additional-Code/playground/internal/transport/http/middleware"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/playground/transport/http/admin")

// Handler exposes the maintenance endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an admin Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, tokens *coreauth.TokenService) {
	g := e.Group("/admin", middleware.RequireAuth(tokens))
	g.POST("/reset", h.reset)
	g.GET("/stats", h.stats)
}

func (h *Handler) reset(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.reset")
	defer span.End()

	result, err := h.svc.Reset(ctx, ident)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(result).Build()
}

func (h *Handler) stats(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.stats")
	defer span.End()

	stats, err := h.svc.Stats(ctx, ident)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(stats).Build()
}
