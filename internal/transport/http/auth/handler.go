package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	coreauth "github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/presentation/http/response"
	service "github.com/Additional-Code/playground/internal/service/auth"
	"github.com/Additional-Code/playground/internal/transport/http/middleware"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/playground/transport/http/auth")

// Handler exposes authentication endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. Login and register are
// public; the profile endpoint requires a valid token.
func Register(e *echo.Echo, h *Handler, tokens *coreauth.TokenService) {
	g := e.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/register", h.register)
	g.GET("/me", h.me, middleware.RequireAuth(tokens))
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var payload dto.LoginRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Username == "" || payload.Password == "" {
		return b.WithError(errorbank.BadRequest("username and password are required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.login")
	defer span.End()

	token, err := h.svc.Authenticate(ctx, payload.Username, payload.Password)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.TokenResponse{AccessToken: token, TokenType: "bearer"}).Build()
}

func (h *Handler) register(c echo.Context) error {
	b := response.New(c)

	var payload dto.RegisterRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Email == "" || payload.Username == "" || payload.Password == "" {
		return b.WithError(errorbank.BadRequest("email, username and password are required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.register")
	defer span.End()

	user, err := h.svc.Register(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.NewUserResponse(user)).Build()
}

func (h *Handler) me(c echo.Context) error {
	b := response.New(c)

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthenticated("missing identity")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.me")
	defer span.End()

	user, err := h.svc.Profile(ctx, ident)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewUserResponse(user)).Build()
}
