package order

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

var repoTracer = otel.Tracer("github.com/Additional-Code/playground/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Filter narrows List results.
type Filter struct {
	Status *entity.OrderStatus
	UserID *int64
	Skip   int
	Limit  int
}

// Repository encapsulates read/write access for orders.
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

// Create persists a new order together with its product association rows.
// Quantity defaults to 1 per product.
func (r *Repository) Create(ctx context.Context, order *entity.Order, productIDs []int64) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.number", order.OrderNumber)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		items := make([]entity.OrderItem, 0, len(productIDs))
		for _, productID := range productIDs {
			items = append(items, entity.OrderItem{
				OrderID:   order.ID,
				ProductID: productID,
				Quantity:  1,
			})
		}
		if len(items) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&items).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an order with its products by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Relation("Products").Where("o.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns orders matching the filter, newest first, with products loaded.
func (r *Repository) List(ctx context.Context, filter Filter) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	var orders []*entity.Order
	q := r.reader.NewSelect().Model(&orders).Relation("Products")
	if filter.Status != nil {
		q = q.Where("o.status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		q = q.Where("o.user_id = ?", *filter.UserID)
	}
	err := q.OrderExpr("o.created_at DESC").Offset(filter.Skip).Limit(filter.Limit).Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// Update writes all columns of an already-loaded order.
func (r *Repository) Update(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Update", trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	_, err := r.writer.NewUpdate().Model(order).WherePK().Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// Delete removes an order and its association rows.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*entity.OrderItem)(nil)).
			Where("order_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*entity.Order)(nil)).
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

// Count returns the total number of orders.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Count")
	defer span.End()

	count, err := r.reader.NewSelect().Model((*entity.Order)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, err
	}
	return count, nil
}
