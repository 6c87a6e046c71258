package category

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
	repo "github.com/Additional-Code/playground/internal/repository/category"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/playground/service/category")

// ListOptions narrows a category listing.
type ListOptions struct {
	IsActive *bool
	Search   string
	Page     dto.Page
}

// Service encapsulates business logic around product categories.
type Service struct {
	repo   *repo.Repository
	logger *zap.Logger
}

func NewService(repository *repo.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repository, logger: logger}
}

func (s *Service) List(ctx context.Context, ident auth.Identity, opts ListOptions) ([]*entity.Category, error) {
	ctx, span := serviceTracer.Start(ctx, "CategoryService.List")
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceCategories, auth.ActionRead, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	skip, limit := opts.Page.Normalized()
	categories, err := s.repo.List(ctx, repo.Filter{
		IsActive: opts.IsActive,
		Search:   opts.Search,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list categories", errorbank.WithCause(err))
	}
	return categories, nil
}

func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (*entity.Category, error) {
	ctx, span := serviceTracer.Start(ctx, "CategoryService.Get", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceCategories, auth.ActionRead, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	category, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("category not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load category", errorbank.WithCause(err))
	}
	return category, nil
}

// Create adds a category. Names are unique across the catalog.
func (s *Service) Create(ctx context.Context, ident auth.Identity, in dto.CategoryCreate) (*entity.Category, error) {
	ctx, span := serviceTracer.Start(ctx, "CategoryService.Create")
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceCategories, auth.ActionCreate, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	existing, err := s.repo.GetByName(ctx, in.Name)
	if err == nil && existing != nil {
		return nil, errorbank.Conflict("category name already exists", errorbank.WithDetail("field", "name"))
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.Internal("failed to check category name", errorbank.WithCause(err))
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	category := &entity.Category{
		Name:        in.Name,
		Description: in.Description,
		IsActive:    isActive,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, category); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create category", errorbank.WithCause(err))
	}

	s.logger.Info("category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, patch dto.CategoryUpdate) (*entity.Category, error) {
	ctx, span := serviceTracer.Start(ctx, "CategoryService.Update", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceCategories, auth.ActionUpdate, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	category, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("category not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load category", errorbank.WithCause(err))
	}

	if patch.Name != nil && *patch.Name != category.Name {
		existing, err := s.repo.GetByName(ctx, *patch.Name)
		if err == nil && existing.ID != id {
			return nil, errorbank.Conflict("category name already exists", errorbank.WithDetail("field", "name"))
		}
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.Internal("failed to check category name", errorbank.WithCause(err))
		}
		category.Name = *patch.Name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if patch.IsActive != nil {
		category.IsActive = *patch.IsActive
	}

	if err := s.repo.Update(ctx, category); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update category", errorbank.WithCause(err))
	}
	return category, nil
}

// Delete removes a category. Products referencing it are detached, not
// deleted.
func (s *Service) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "CategoryService.Delete", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceCategories, auth.ActionDelete, false) {
		return errorbank.Forbidden("insufficient permissions")
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("category not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete category", errorbank.WithCause(err))
	}

	s.logger.Info("category deleted", zap.Int64("category_id", id))
	return nil
}
