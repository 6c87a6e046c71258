package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/playground/internal/config"
	"github.com/Additional-Code/playground/internal/entity"
)

func newTokenService(ttl time.Duration) *TokenService {
	return NewTokenService(config.Config{
		Auth: config.Auth{TokenSecret: "test-secret", TokenTTL: ttl},
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTokenService(time.Hour)

	token, err := svc.Issue(42, entity.RoleTester)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ident, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ident.UserID)
	assert.Equal(t, entity.RoleTester, ident.Role)
	assert.False(t, ident.IsAdmin())
}

func TestTokenCarriesIssuedRole(t *testing.T) {
	svc := newTokenService(time.Hour)

	token, err := svc.Issue(1, entity.RoleAdmin)
	require.NoError(t, err)

	ident, err := svc.Validate(token)
	require.NoError(t, err)
	assert.True(t, ident.IsAdmin())
}

func TestTokenExpired(t *testing.T) {
	svc := newTokenService(-time.Minute)

	token, err := svc.Issue(7, entity.RoleViewer)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := newTokenService(time.Hour)
	verifier := NewTokenService(config.Config{
		Auth: config.Auth{TokenSecret: "other-secret", TokenTTL: time.Hour},
	})

	token, err := issuer.Issue(7, entity.RoleTester)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestTokenMalformed(t *testing.T) {
	svc := newTokenService(time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)

	_, err = svc.Validate("")
	assert.Error(t, err)
}
