package auth

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	repo "github.com/Additional-Code/playground/internal/repository/user"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/playground/service/auth")

// Service handles login, registration, and profile lookups.
type Service struct {
	users  *repo.Repository
	hasher *auth.Hasher
	tokens *auth.TokenService
	logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(users *repo.Repository, hasher *auth.Hasher, tokens *auth.TokenService, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate verifies credentials and issues a session token. An unknown
// username and a wrong password fail identically; a disabled account fails
// only after the credential matched.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return "", errorbank.Unauthenticated("invalid username or password")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return "", errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}

	if !s.hasher.Verify(user.HashedPassword, password) {
		return "", errorbank.Unauthenticated("invalid username or password")
	}

	if !user.IsActive {
		return "", errorbank.AccountDisabled("user account is deactivated")
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return "", errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, nil
}

// Register creates a new account. The role defaults to tester when omitted.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	role := entity.RoleTester
	if req.Role != "" {
		role = entity.Role(req.Role)
		if !role.Valid() {
			return nil, errorbank.BadRequest("invalid role", errorbank.WithDetail("role", req.Role))
		}
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errorbank.Conflict("email already registered", errorbank.WithDetail("field", "email"))
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.Internal("failed to check email", errorbank.WithCause(err))
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, errorbank.Conflict("username already taken", errorbank.WithDetail("field", "username"))
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.Internal("failed to check username", errorbank.WithCause(err))
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errorbank.Internal("failed to hash password", errorbank.WithCause(err))
	}

	now := time.Now().UTC()
	user := &entity.User{
		Email:          req.Email,
		Username:       req.Username,
		FullName:       req.FullName,
		HashedPassword: hashed,
		Role:           role,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create user", errorbank.WithCause(err))
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Profile returns the caller's own user record.
func (s *Service) Profile(ctx context.Context, ident auth.Identity) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Profile")
	defer span.End()

	user, err := s.users.GetByID(ctx, ident.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.Unauthenticated("user no longer exists")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}
	return user, nil
}
