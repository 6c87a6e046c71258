package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Additional-Code/playground/internal/config"
	"github.com/Additional-Code/playground/internal/entity"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

// Identity is the authenticated caller as carried by a validated token. The
// role is captured at issuance time and deliberately not re-checked against
// the live user record; a role change or deactivation only takes effect once
// outstanding tokens expire.
type Identity struct {
	UserID int64
	Role   entity.Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == entity.RoleAdmin
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService from configuration.
func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Auth.TokenSecret),
		ttl:    cfg.Auth.TokenTTL,
	}
}

// Issue signs a token embedding the subject id and role with the configured expiry.
func (s *TokenService) Issue(userID int64, role entity.Role) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, yielding the embedded identity.
// Malformed, expired, or foreign-signed tokens all fail the same way.
func (s *TokenService) Validate(tokenString string) (Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errorbank.Unauthenticated("invalid or expired token", errorbank.WithCause(err))
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, errorbank.Unauthenticated("invalid token subject", errorbank.WithCause(err))
	}

	role := entity.Role(claims.Role)
	if !role.Valid() {
		return Identity{}, errorbank.Unauthenticated("invalid token role")
	}

	return Identity{UserID: userID, Role: role}, nil
}
