package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/playground/repository/category")

// ErrNotFound is returned when a category is missing.
var ErrNotFound = errors.New("category not found")

// Filter narrows List results.
type Filter struct {
	IsActive *bool
	Search   string
	Skip     int
	Limit    int
}

// Repository encapsulates read/write access for categories.
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

// Create persists a new category using the write connection.
func (r *Repository) Create(ctx context.Context, category *entity.Category) error {
	if category == nil {
		return errors.New("nil category")
	}
	ctx, span := repoTracer.Start(ctx, "CategoryRepository.Create", trace.WithAttributes(attribute.String("category.name", category.Name)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(category).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a category by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	ctx, span := repoTracer.Start(ctx, "CategoryRepository.GetByID", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	category := new(entity.Category)
	err := r.reader.NewSelect().Model(category).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return category, nil
}

// GetByName fetches a category by its unique name.
func (r *Repository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	ctx, span := repoTracer.Start(ctx, "CategoryRepository.GetByName")
	defer span.End()

	category := new(entity.Category)
	err := r.reader.NewSelect().Model(category).Where("name = ?", name).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return category, nil
}

// List returns categories matching the filter.
func (r *Repository) List(ctx context.Context, filter Filter) ([]*entity.Category, error) {
	ctx, span := repoTracer.Start(ctx, "CategoryRepository.List")
	defer span.End()

	var categories []*entity.Category
	q := r.reader.NewSelect().Model(&categories)
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		q = q.Where("lower(name) LIKE lower(?)", "%"+filter.Search+"%")
	}
	if err := q.Offset(filter.Skip).Limit(filter.Limit).Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return categories, nil
}

// Update writes all columns of an already-loaded category.
func (r *Repository) Update(ctx context.Context, category *entity.Category) error {
	if category == nil {
		return errors.New("nil category")
	}
	ctx, span := repoTracer.Start(ctx, "CategoryRepository.Update", trace.WithAttributes(attribute.Int64("category.id", category.ID)))
	defer span.End()

	_, err := r.writer.NewUpdate().Model(category).WherePK().Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// Delete removes a category. Products referencing it survive with their
// category reference cleared, never deleted.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "CategoryRepository.Delete", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*entity.Product)(nil)).
			Set("category_id = NULL").
			Where("category_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*entity.Category)(nil)).
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

// Count returns the total number of categories.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := repoTracer.Start(ctx, "CategoryRepository.Count")
	defer span.End()

	count, err := r.reader.NewSelect().Model((*entity.Category)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, err
	}
	return count, nil
}
