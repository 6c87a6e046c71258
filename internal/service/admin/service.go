package admin

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/cache"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/messaging"
	categoryrepo "github.com/Additional-Code/playground/internal/repository/category"
	orderrepo "github.com/Additional-Code/playground/internal/repository/order"
	productrepo "github.com/Additional-Code/playground/internal/repository/product"
	userrepo "github.com/Additional-Code/playground/internal/repository/user"
	"github.com/Additional-Code/playground/internal/seeder"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/playground/service/admin")

// EventSandboxReset is published after every successful reset.
const EventSandboxReset = "sandbox.reset"

type resetEvent struct {
	Type       string    `json:"type"`
	Users      int       `json:"users"`
	Categories int       `json:"categories"`
	Products   int       `json:"products"`
	Orders     int       `json:"orders"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Params groups the admin service dependencies.
type Params struct {
	fx.In

	Seeder     *seeder.Seeder
	Cache      cache.Store
	Bus        messaging.Client
	Users      *userrepo.Repository
	Categories *categoryrepo.Repository
	Products   *productrepo.Repository
	Orders     *orderrepo.Repository
	Logger     *zap.Logger
}

// Service exposes the maintenance surface: database reset and row counts.
// Every operation is admin only.
type Service struct {
	seeder     *seeder.Seeder
	cache      cache.Store
	bus        messaging.Client
	users      *userrepo.Repository
	categories *categoryrepo.Repository
	products   *productrepo.Repository
	orders     *orderrepo.Repository
	logger     *zap.Logger
}

func NewService(p Params) *Service {
	return &Service{
		seeder:     p.Seeder,
		cache:      p.Cache,
		bus:        p.Bus,
		users:      p.Users,
		categories: p.Categories,
		products:   p.Products,
		orders:     p.Orders,
		logger:     p.Logger,
	}
}

// Reset drops every row and reapplies the reference dataset. The cache is
// flushed afterwards so no stale entity survives the reset.
func (s *Service) Reset(ctx context.Context, ident auth.Identity) (dto.ResetResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "AdminService.Reset")
	defer span.End()

	if !ident.IsAdmin() {
		return dto.ResetResponse{}, errorbank.Forbidden("admin role required")
	}

	counts, err := s.seeder.Reset(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reset failed")
		return dto.ResetResponse{}, errorbank.Internal("failed to reset database", errorbank.WithCause(err))
	}

	if err := s.cache.Flush(ctx); err != nil {
		s.logger.Warn("failed to flush cache after reset", zap.Error(err))
	}
	s.publishReset(ctx, counts)

	s.logger.Info("database reset", zap.Int64("requested_by", ident.UserID))
	return dto.ResetResponse{
		Message:           "database reset to initial state",
		UsersCreated:      counts.Users,
		CategoriesCreated: counts.Categories,
		ProductsCreated:   counts.Products,
		OrdersCreated:     counts.Orders,
	}, nil
}

// Stats reports current row counts per entity.
func (s *Service) Stats(ctx context.Context, ident auth.Identity) (dto.StatsResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "AdminService.Stats")
	defer span.End()

	if !ident.IsAdmin() {
		return dto.StatsResponse{}, errorbank.Forbidden("admin role required")
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return dto.StatsResponse{}, errorbank.Internal("failed to count users", errorbank.WithCause(err))
	}
	categories, err := s.categories.Count(ctx)
	if err != nil {
		return dto.StatsResponse{}, errorbank.Internal("failed to count categories", errorbank.WithCause(err))
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return dto.StatsResponse{}, errorbank.Internal("failed to count products", errorbank.WithCause(err))
	}
	orders, err := s.orders.Count(ctx)
	if err != nil {
		return dto.StatsResponse{}, errorbank.Internal("failed to count orders", errorbank.WithCause(err))
	}

	return dto.StatsResponse{
		Users:      users,
		Categories: categories,
		Products:   products,
		Orders:     orders,
	}, nil
}

func (s *Service) publishReset(ctx context.Context, counts seeder.Counts) {
	event := resetEvent{
		Type:       EventSandboxReset,
		Users:      counts.Users,
		Categories: counts.Categories,
		Products:   counts.Products,
		Orders:     counts.Orders,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode reset event", zap.Error(err))
		return
	}
	if err := s.bus.Publish(ctx, []byte(EventSandboxReset), payload); err != nil {
		s.logger.Error("failed to publish reset event", zap.Error(err))
	}
}
