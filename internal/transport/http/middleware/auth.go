package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/presentation/http/response"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

const identityKey = "auth.identity"

// RequireAuth validates the bearer token and stashes the caller identity in
// the request context. Requests without a valid token are rejected with 401.
func RequireAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return response.New(c).WithError(errorbank.Unauthenticated("missing authorization header")).Build()
			}
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return response.New(c).WithError(errorbank.Unauthenticated("invalid authorization header")).Build()
			}

			ident, err := tokens.Validate(token)
			if err != nil {
				return response.New(c).WithError(err).Build()
			}

			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// IdentityFrom extracts the authenticated identity set by RequireAuth.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	ident, ok := c.Get(identityKey).(auth.Identity)
	return ident, ok
}
