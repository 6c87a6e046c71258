package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	coreauth "github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/config"
	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	repo "github.com/Additional-Code/playground/internal/repository/user"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

func newTestService(t *testing.T) (*Service, *repo.Repository, *coreauth.TokenService) {
	t.Helper()
	conns := database.NewTestConnections(t)
	cfg := config.Config{Auth: config.Auth{
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
		BcryptCost:  4,
	}}
	users := repo.NewRepository(conns)
	hasher := coreauth.NewHasher(cfg)
	tokens := coreauth.NewTokenService(cfg)
	return NewService(users, hasher, tokens, zap.NewNop()), users, tokens
}

func register(t *testing.T, svc *Service, username, password, role string) *entity.User {
	t.Helper()
	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    username + "@qa-test.com",
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestAuthenticateIssuesValidToken(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	user := register(t, svc, "tester", "tester123", "")

	token, err := svc.Authenticate(ctx, "tester", "tester123")
	require.NoError(t, err)

	ident, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ident.UserID)
	assert.Equal(t, entity.RoleTester, ident.Role)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "tester", "tester123", "")

	_, err := svc.Authenticate(ctx, "tester", "wrong")
	require.Error(t, err)
	wrongPassword := errorbank.From(err)

	_, err = svc.Authenticate(ctx, "ghost", "tester123")
	require.Error(t, err)
	unknownUser := errorbank.From(err)

	// Unknown usernames and wrong passwords are indistinguishable.
	assert.Equal(t, errorbank.KindUnauthenticated, wrongPassword.Kind())
	assert.Equal(t, wrongPassword.Kind(), unknownUser.Kind())
	assert.Equal(t, wrongPassword.Message(), unknownUser.Message())
}

func TestAuthenticateRejectsDisabledAccount(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	user := register(t, svc, "dormant", "secret99", "")
	user.IsActive = false
	require.NoError(t, users.Update(ctx, user))

	_, err := svc.Authenticate(ctx, "dormant", "secret99")
	require.Error(t, err)
	assert.Equal(t, errorbank.KindAccountDisabled, errorbank.From(err).Kind())

	// The wrong password still wins over the disabled state.
	_, err = svc.Authenticate(ctx, "dormant", "wrong")
	assert.Equal(t, errorbank.KindUnauthenticated, errorbank.From(err).Kind())
}

func TestRegisterDefaultsToTester(t *testing.T) {
	svc, _, _ := newTestService(t)

	user := register(t, svc, "newbie", "pass1234", "")
	assert.Equal(t, entity.RoleTester, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "pass1234", user.HashedPassword)
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "x@qa-test.com", Username: "x", Password: "x", Role: "superuser",
	})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestRegisterDuplicateEmailAndUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "taken", "pass1234", "")

	_, err := svc.Register(ctx, dto.RegisterRequest{
		Email: "taken@qa-test.com", Username: "other", Password: "pass1234",
	})
	require.Error(t, err)
	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindConflict, appErr.Kind())
	assert.Equal(t, "email", appErr.Details()["field"])

	_, err = svc.Register(ctx, dto.RegisterRequest{
		Email: "fresh@qa-test.com", Username: "taken", Password: "pass1234",
	})
	require.Error(t, err)
	appErr = errorbank.From(err)
	assert.Equal(t, errorbank.KindConflict, appErr.Kind())
	assert.Equal(t, "username", appErr.Details()["field"])
}

func TestProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user := register(t, svc, "me", "pass1234", "viewer")

	loaded, err := svc.Profile(ctx, coreauth.Identity{UserID: user.ID, Role: user.Role})
	require.NoError(t, err)
	assert.Equal(t, "me", loaded.Username)

	_, err = svc.Profile(ctx, coreauth.Identity{UserID: 999, Role: entity.RoleViewer})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindUnauthenticated, errorbank.From(err).Kind())
}
