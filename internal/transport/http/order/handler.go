package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	coreauth "github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	"github.com/Additional-Code/playground/internal/presentation/http/response"
	service "github.com/Additional-Code/playground/internal/service/order"
	"github.com/Additional-Code/playground/internal/transport/http/middleware"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/playground/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, tokens *coreauth.TokenService) {
	g := e.Group("/orders", middleware.RequireAuth(tokens))
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
	g.POST("/:id/cancel", h.cancel)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}

	var page dto.Page
	if err := c.Bind(&page); err != nil {
		return b.WithError(errorbank.BadRequest("invalid pagination", errorbank.WithCause(err))).Build()
	}

	opts := service.ListOptions{Page: page}
	if raw := c.QueryParam("status"); raw != "" {
		status := entity.OrderStatus(raw)
		if !status.Valid() {
			return b.WithError(errorbank.BadRequest("invalid status filter", errorbank.WithDetail("status", raw))).Build()
		}
		opts.Status = &status
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return b.WithError(errorbank.BadRequest("invalid user_id filter", errorbank.WithCause(err))).Build()
		}
		opts.UserID = &id
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx, ident, opts)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewOrderResponses(orders)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, ident, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}

	var payload dto.OrderCreate
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	span.SetAttributes(attribute.Int("order.products", len(payload.ProductIDs)))
	defer span.End()

	order, err := h.svc.Create(ctx, ident, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.OrderUpdate
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Update(ctx, ident, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) remove(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, ident, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]string{"message": "order deleted"}).Build()
}

func (h *Handler) cancel(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.cancel", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Cancel(ctx, ident, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewOrderResponse(order)).Build()
}
