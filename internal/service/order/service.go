package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	"github.com/Additional-Code/playground/internal/messaging"
	repo "github.com/Additional-Code/playground/internal/repository/order"
	productrepo "github.com/Additional-Code/playground/internal/repository/product"
	"github.com/Additional-Code/playground/internal/seeder"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/playground/service/order")

const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// Event is the envelope published to the message bus on order changes.
type Event struct {
	Type        string    `json:"type"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      int64     `json:"user_id"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ListOptions narrows an order listing.
type ListOptions struct {
	Status *entity.OrderStatus
	UserID *int64
	Page   dto.Page
}

// Params groups the order service dependencies.
type Params struct {
	fx.In

	Orders   *repo.Repository
	Products *productrepo.Repository
	Bus      messaging.Client
	Logger   *zap.Logger
}

// Service encapsulates business logic around orders. Order totals are a
// snapshot of product prices at creation time and are never recomputed.
type Service struct {
	orders   *repo.Repository
	products *productrepo.Repository
	bus      messaging.Client
	logger   *zap.Logger
}

func NewService(p Params) *Service {
	return &Service{
		orders:   p.Orders,
		products: p.Products,
		bus:      p.Bus,
		logger:   p.Logger,
	}
}

// List returns orders visible to the caller. Viewers only see their own.
func (s *Service) List(ctx context.Context, ident auth.Identity, opts ListOptions) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceOrders, auth.ActionRead, true) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	userID := opts.UserID
	if auth.ScopeToOwner(ident.Role, auth.ResourceOrders) {
		userID = &ident.UserID
	}

	skip, limit := opts.Page.Normalized()
	orders, err := s.orders.List(ctx, repo.Filter{
		Status: opts.Status,
		UserID: userID,
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Get retrieves a single order. Viewers can only read their own.
func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if !auth.Permit(ident.Role, auth.ResourceOrders, auth.ActionRead, order.UserID == ident.UserID) {
		return nil, errorbank.Forbidden("cannot access other users' orders")
	}
	return order, nil
}

// Create places an order for the authenticated caller. Every referenced
// product must exist and be active. The total is a snapshot of current
// prices with quantity 1 per product.
func (s *Service) Create(ctx context.Context, ident auth.Identity, in dto.OrderCreate) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.Int("order.products", len(in.ProductIDs))))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceOrders, auth.ActionCreate, true) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	if len(in.ProductIDs) == 0 {
		return nil, errorbank.BadRequest("order must contain at least one product")
	}

	ids := dedupe(in.ProductIDs)
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load products", errorbank.WithCause(err))
	}

	found := make(map[int64]*entity.Product, len(products))
	for _, product := range products {
		found[product.ID] = product
	}

	var missing, inactive []string
	total := 0.0
	for _, id := range ids {
		product, ok := found[id]
		if !ok {
			missing = append(missing, strconv.FormatInt(id, 10))
			continue
		}
		if !product.IsActive {
			inactive = append(inactive, strconv.FormatInt(id, 10))
			continue
		}
		total += product.Price
	}
	if len(missing) > 0 {
		return nil, errorbank.BadRequest("some products do not exist", errorbank.WithDetail("product_ids", strings.Join(missing, ", ")))
	}
	if len(inactive) > 0 {
		return nil, errorbank.BadRequest("some products are inactive", errorbank.WithDetail("product_ids", strings.Join(inactive, ", ")))
	}

	now := time.Now().UTC()
	order := &entity.Order{
		OrderNumber:     seeder.NewOrderNumber(),
		UserID:          ident.UserID,
		Status:          entity.OrderPending,
		TotalAmount:     total,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Create(ctx, order, ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.publish(ctx, EventOrderCreated, order)
	s.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalAmount),
	)

	// Reload so the response carries the product list.
	created, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		s.logger.Warn("failed to reload created order", zap.Int64("order_id", order.ID), zap.Error(err))
		return order, nil
	}
	return created, nil
}

// Update applies a partial update. Status transitions are unrestricted
// here; only cancellation has dedicated rules.
func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, patch dto.OrderUpdate) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceOrders, auth.ActionUpdate, false) {
		return nil, errorbank.Forbidden("insufficient permissions")
	}

	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if patch.Status != nil {
		status := entity.OrderStatus(*patch.Status)
		if !status.Valid() {
			return nil, errorbank.BadRequest(
				fmt.Sprintf("invalid order status: %s", *patch.Status),
				errorbank.WithDetail("allowed", "pending, confirmed, shipped, delivered, cancelled"),
			)
		}
		order.Status = status
	}
	if patch.ShippingAddress != nil {
		order.ShippingAddress = *patch.ShippingAddress
	}
	if patch.Notes != nil {
		order.Notes = *patch.Notes
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.orders.Update(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}
	return order, nil
}

// Cancel marks a pending order cancelled. Owners may cancel their own
// orders regardless of role.
func (s *Service) Cancel(ctx context.Context, ident auth.Identity, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if !auth.Permit(ident.Role, auth.ResourceOrders, auth.ActionCancel, order.UserID == ident.UserID) {
		return nil, errorbank.Forbidden("cannot cancel other users' orders")
	}
	if order.Status != entity.OrderPending {
		return nil, errorbank.BadRequest("only pending orders can be cancelled", errorbank.WithDetail("status", string(order.Status)))
	}

	order.Status = entity.OrderCancelled
	order.UpdatedAt = time.Now().UTC()
	if err := s.orders.Update(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to cancel order", errorbank.WithCause(err))
	}

	s.publish(ctx, EventOrderCancelled, order)
	s.logger.Info("order cancelled", zap.Int64("order_id", order.ID), zap.String("order_number", order.OrderNumber))
	return order, nil
}

// Delete removes an order entirely. Testers and admins only.
func (s *Service) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if !auth.Permit(ident.Role, auth.ResourceOrders, auth.ActionDelete, false) {
		return errorbank.Forbidden("insufficient permissions")
	}

	err := s.orders.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	s.logger.Info("order deleted", zap.Int64("order_id", id), zap.Int64("deleted_by", ident.UserID))
	return nil
}

// publish emits an order event; publish failures are logged, never
// surfaced to the caller.
func (s *Service) publish(ctx context.Context, eventType string, order *entity.Order) {
	event := Event{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode order event", zap.Error(err))
		return
	}
	if err := s.bus.Publish(ctx, []byte(order.OrderNumber), payload); err != nil {
		s.logger.Error("failed to publish order event",
			zap.String("event", eventType),
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
