package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/cache"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	categoryrepo "github.com/Additional-Code/playground/internal/repository/category"
	repo "github.com/Additional-Code/playground/internal/repository/product"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/playground/service/product")

const cacheTTL = 5 * time.Minute

func cacheKey(id int64) string {
	return fmt.Sprintf("products:%d", id)
}

// ListOptions narrows and sorts a product listing.
type ListOptions struct {
	IsActive   *bool
	CategoryID *int64
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
	Search     string
	SortBy     string
	SortDesc   bool
	Page       dto.Page
}

// Params groups the product service dependencies.
type Params struct {
	fx.In

	Products   *repo.Repository
	Categories *categoryrepo.Repository
	Cache      cache.Store
	Logger     *zap.Logger
}

// Service encapsulates business logic around catalog products. Single
// product reads are served through the cache when possible.
type Service struct {
	products   *repo.Repository
	categories *categoryrepo.Repository
	cache      cache.Store
	logger     *zap.Logger
}

func NewService(p Params) *Service {
	return &Service{
		products:   p.Products,
		categories: p.Categories,
		cache:      p.Cache,
		logger:     p.Logger,
	}
}

func (s *Service) List(ctx context.Context, ident auth.Identity, opts ListOptions) ([]*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.List")
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceProducts, auth.ActionRead, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	if opts.SortBy != "" && !repo.ValidSortColumn(opts.SortBy) {
		return nil, errorbank.BadRequest(
			fmt.Sprintf("invalid sort column: %s", opts.SortBy),
			errorbank.WithDetail("allowed", "price, name, created_at, stock"),
		)
	}

	skip, limit := opts.Page.Normalized()
	products, err := s.products.List(ctx, repo.Filter{
		IsActive:   opts.IsActive,
		CategoryID: opts.CategoryID,
		MinPrice:   opts.MinPrice,
		MaxPrice:   opts.MaxPrice,
		InStock:    opts.InStock,
		Search:     opts.Search,
		SortBy:     opts.SortBy,
		SortDesc:   opts.SortDesc,
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list products", errorbank.WithCause(err))
	}
	return products, nil
}

// Get retrieves a single product, preferring the cache.
func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceProducts, auth.ActionRead, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	if data, err := s.cache.Get(ctx, cacheKey(id)); err == nil {
		product := new(entity.Product)
		if err := json.Unmarshal(data, product); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("product not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load product", errorbank.WithCause(err))
	}

	if data, err := json.Marshal(product); err == nil {
		if err := s.cache.Set(ctx, cacheKey(id), data, cacheTTL); err != nil {
			s.logger.Warn("failed to cache product", zap.Int64("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

// Create adds a product. SKUs are unique and the category, when given,
// must exist.
func (s *Service) Create(ctx context.Context, ident auth.Identity, in dto.ProductCreate) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Create")
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceProducts, auth.ActionCreate, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	if err := s.validate(in.Name, in.SKU, in.Price, in.Stock); err != nil {
		return nil, err
	}

	existing, err := s.products.GetBySKU(ctx, in.SKU)
	if err == nil && existing != nil {
		return nil, errorbank.Conflict("product SKU already exists", errorbank.WithDetail("field", "sku"))
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.Internal("failed to check SKU", errorbank.WithCause(err))
	}

	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		IsActive:    true,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create product", errorbank.WithCause(err))
	}

	s.logger.Info("product created", zap.Int64("product_id", product.ID), zap.String("sku", product.SKU))
	return product, nil
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, patch dto.ProductUpdate) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceProducts, auth.ActionUpdate, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("product not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load product", errorbank.WithCause(err))
	}

	if patch.SKU != nil && *patch.SKU != product.SKU {
		existing, err := s.products.GetBySKU(ctx, *patch.SKU)
		if err == nil && existing.ID != id {
			return nil, errorbank.Conflict("product SKU already exists", errorbank.WithDetail("field", "sku"))
		}
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.Internal("failed to check SKU", errorbank.WithCause(err))
		}
		product.SKU = *patch.SKU
	}

	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = patch.CategoryID
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			return nil, errorbank.BadRequest("price must be greater than zero")
		}
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, errorbank.BadRequest("stock must not be negative")
		}
		product.Stock = *patch.Stock
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update product", errorbank.WithCause(err))
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
	}
	return product, nil
}

// Delete removes a product. Orders keep their totals; the association
// rows are dropped by the repository.
func (s *Service) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceProducts, auth.ActionDelete, false) {
		return errorbank.Forbidden("insufficient permissions")
	}

	err := s.products.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("product not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete product", errorbank.WithCause(err))
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
	}

	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) validate(name, sku string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return errorbank.BadRequest("product name is required")
	}
	if strings.TrimSpace(sku) == "" {
		return errorbank.BadRequest("product SKU is required")
	}
	if price <= 0 {
		return errorbank.BadRequest("price must be greater than zero")
	}
	if stock < 0 {
		return errorbank.BadRequest("stock must not be negative")
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, id int64) error {
	_, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, categoryrepo.ErrNotFound) {
		return errorbank.BadRequest("category does not exist", errorbank.WithDetail("category_id", fmt.Sprintf("%d", id)))
	}
	if err != nil {
		return errorbank.Internal("failed to check category", errorbank.WithCause(err))
	}
	return nil
}
