package product

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
	service "github.com/Additional-Code/playground/internal/service/product"
	"github.com/Additional-Code/playground/internal/transport/http/middleware"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/playground/transport/http/product")

// Handler exposes product endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a product Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, tokens *coreauth.TokenService) {
	g := e.Group("/products", middleware.RequireAuth(tokens))
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

	opts, err := listOptions(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.list")
	defer span.End()

	products, err := h.svc.List(ctx, ident, opts)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewProductResponses(products)).Build()
}

func listOptions(c echo.Context) (service.ListOptions, error) {
	var page dto.Page
	if err := c.Bind(&page); err != nil {
		return service.ListOptions{}, errorbank.BadRequest("invalid pagination", errorbank.WithCause(err))
	}

	opts := service.ListOptions{
		Page:   page,
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sort_by"),
	}
	if raw := c.QueryParam("sort_order"); raw != "" {
		switch raw {
		case "asc":
		case "desc":
			opts.SortDesc = true
		default:
			return service.ListOptions{}, errorbank.BadRequest("invalid sort_order", errorbank.WithDetail("allowed", "asc, desc"))
		}
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return service.ListOptions{}, errorbank.BadRequest("invalid is_active filter", errorbank.WithCause(err))
		}
		opts.IsActive = &active
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return service.ListOptions{}, errorbank.BadRequest("invalid category_id filter", errorbank.WithCause(err))
		}
		opts.CategoryID = &id
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return service.ListOptions{}, errorbank.BadRequest("invalid min_price filter", errorbank.WithCause(err))
		}
		opts.MinPrice = &price
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return service.ListOptions{}, errorbank.BadRequest("invalid max_price filter", errorbank.WithCause(err))
		}
		opts.MaxPrice = &price
	}
	if raw := c.QueryParam("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return service.ListOptions{}, errorbank.BadRequest("invalid in_stock filter", errorbank.WithCause(err))
		}
		opts.InStock = &inStock
	}
	return opts, nil
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

	ctx, span := httpTracer.Start(c.Request().Context(), "products.getByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := h.svc.Get(ctx, ident, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewProductResponse(product)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}

	var payload dto.ProductCreate
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.create")
	span.SetAttributes(attribute.String("product.sku", payload.SKU))
	defer span.End()

	product, err := h.svc.Create(ctx, ident, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.NewProductResponse(product)).Build()
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

	var payload dto.ProductUpdate
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := h.svc.Update(ctx, ident, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewProductResponse(product)).Build()
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

	ctx, span := httpTracer.Start(c.Request().Context(), "products.delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, ident, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]string{"message": "product deleted"}).Build()
}
