package user

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	repo "github.com/Additional-Code/playground/internal/repository/user"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/playground/service/user")

// ListOptions narrows a user listing.
type ListOptions struct {
	Role     *entity.Role
	IsActive *bool
	Page     dto.Page
}

// Service encapsulates business logic around user accounts.
type Service struct {
	repo   *repo.Repository
	logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(repository *repo.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repository, logger: logger}
}

// List returns users visible to the caller. Every role may read users.
func (s *Service) List(ctx context.Context, ident auth.Identity, opts ListOptions) ([]*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.List")
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceUsers, auth.ActionRead, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	skip, limit := opts.Page.Normalized()
	users, err := s.repo.List(ctx, repo.Filter{
		Role:     opts.Role,
		IsActive: opts.IsActive,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list users", errorbank.WithCause(err))
	}
	return users, nil
}

// Get retrieves a user by id.
func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.Get", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceUsers, auth.ActionRead, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("user not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}
	return user, nil
}

// Update applies a partial update to a user. Admin only. Uniqueness is
// re-checked only for fields actually changing, excluding the record itself.
func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, patch dto.UserUpdate) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.Update", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceUsers, auth.ActionUpdate, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("user not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}

	if patch.Email != nil && *patch.Email != user.Email {
		existing, err := s.repo.GetByEmail(ctx, *patch.Email)
		if err == nil && existing.ID != id {
			return nil, errorbank.Conflict("email already in use", errorbank.WithDetail("field", "email"))
		}
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.Internal("failed to check email", errorbank.WithCause(err))
		}
		user.Email = *patch.Email
	}

	if patch.Username != nil && *patch.Username != user.Username {
		existing, err := s.repo.GetByUsername(ctx, *patch.Username)
		if err == nil && existing.ID != id {
			return nil, errorbank.Conflict("username already in use", errorbank.WithDetail("field", "username"))
		}
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.Internal("failed to check username", errorbank.WithCause(err))
		}
		user.Username = *patch.Username
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Role != nil {
		role := entity.Role(*patch.Role)
		if !role.Valid() {
			return nil, errorbank.BadRequest("invalid role", errorbank.WithDetail("role", *patch.Role))
		}
		user.Role = role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update user", errorbank.WithCause(err))
	}
	return user, nil
}

// Delete removes a user and, by cascade, all of their orders. Admin only.
// Self-deletion is rejected regardless of role.
func (s *Service) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "UserService.Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceUsers, auth.ActionDelete, false) {
		return errorbank.Forbidden("insufficient permissions")
	}

	if id == ident.UserID {
		return errorbank.BadRequest("cannot delete yourself")
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("user not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete user", errorbank.WithCause(err))
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("deleted_by", ident.UserID))
	return nil
}
