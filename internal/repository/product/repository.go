package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/playground/repository/product")

// ErrNotFound is returned when a product is missing.
var ErrNotFound = errors.New("product not found")

// Filter narrows and sorts List results. Search matches name or SKU,
// case-insensitively. SortBy must be one of the whitelisted columns.
type Filter struct {
	IsActive   *bool
	CategoryID *int64
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
	Search     string
	SortBy     string
	SortDesc   bool
	Skip       int
	Limit      int
}

var sortColumns = map[string]bool{
	"price":      true,
	"name":       true,
	"created_at": true,
	"stock":      true,
}

// ValidSortColumn reports whether the column may be used for sorting.
func ValidSortColumn(column string) bool {
	return sortColumns[column]
}

// Repository encapsulates read/write access for products.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new product using the write connection.
func (r *Repository) Create(ctx context.Context, product *entity.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Create", trace.WithAttributes(attribute.String("product.sku", product.SKU)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(product).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a product with its category by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product := new(entity.Product)
	err := r.reader.NewSelect().Model(product).Relation("Category").Where("product.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return product, nil
}

// GetBySKU fetches a product by its unique SKU.
func (r *Repository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.GetBySKU")
	defer span.End()

	product := new(entity.Product)
	err := r.reader.NewSelect().Model(product).Where("sku = ?", sku).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return product, nil
}

// GetByIDs fetches every product whose id is in the given set.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.GetByIDs", trace.WithAttributes(attribute.Int("product.count", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	var products []*entity.Product
	err := r.reader.NewSelect().Model(&products).Where("id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}

// List returns products matching the filter with their categories loaded.
func (r *Repository) List(ctx context.Context, filter Filter) ([]*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	var products []*entity.Product
	q := r.reader.NewSelect().Model(&products).Relation("Category")
	if filter.IsActive != nil {
		q = q.Where("product.is_active = ?", *filter.IsActive)
	}
	if filter.CategoryID != nil {
		q = q.Where("product.category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		q = q.Where("product.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("product.price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			q = q.Where("product.stock > 0")
		} else {
			q = q.Where("product.stock = 0")
		}
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("(lower(product.name) LIKE lower(?) OR lower(product.sku) LIKE lower(?))", pattern, pattern)
	}
	if filter.SortBy != "" && ValidSortColumn(filter.SortBy) {
		direction := "ASC"
		if filter.SortDesc {
			direction = "DESC"
		}
		q = q.OrderExpr(fmt.Sprintf("product.%s %s", filter.SortBy, direction))
	}
	if err := q.Offset(filter.Skip).Limit(filter.Limit).Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}

// Update writes all columns of an already-loaded product.
func (r *Repository) Update(ctx context.Context, product *entity.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Update", trace.WithAttributes(attribute.Int64("product.id", product.ID)))
	defer span.End()

	_, err := r.writer.NewUpdate().Model(product).WherePK().Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// Delete removes a product and detaches it from any orders that reference it.
// The orders themselves survive; only their association rows go away.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*entity.OrderItem)(nil)).
			Where("product_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*entity.Product)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
	}
	return err
}

// Count returns the total number of products.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Count")
	defer span.End()

	count, err := r.reader.NewSelect().Model((*entity.Product)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, err
	}
	return count, nil
}
