package category

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	coreauth "github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/presentation/http/response"
	service "github.com/Additional-Code/playground/internal/service/category"
	"github.com/Additional-Code/playground/internal/transport/http/middleware"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/playground/transport/http/category")

// Handler exposes category endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a category Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, tokens *coreauth.TokenService) {
	g := e.Group("/categories", middleware.RequireAuth(tokens))
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
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

	opts := service.ListOptions{Page: page, Search: c.QueryParam("search")}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("invalid is_active filter", errorbank.WithCause(err))).Build()
		}
		opts.IsActive = &active
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.list")
	defer span.End()

	categories, err := h.svc.List(ctx, ident, opts)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewCategoryResponses(categories)).Build()
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

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.getByID", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	category, err := h.svc.Get(ctx, ident, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewCategoryResponse(category)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}

	var payload dto.CategoryCreate
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Name == "" {
		return b.WithError(errorbank.BadRequest("name is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.create")
	defer span.End()

	category, err := h.svc.Create(ctx, ident, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.NewCategoryResponse(category)).Build()
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

	var payload dto.CategoryUpdate
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.update", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	category, err := h.svc.Update(ctx, ident, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewCategoryResponse(category)).Build()
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

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.delete", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, ident, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]string{"message": "category deleted"}).Build()
}
