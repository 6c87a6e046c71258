package user

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

var repoTracer = otel.Tracer("github.com/Additional-Code/playground/repository/user")

// ErrNotFound is returned when a user is missing.
var ErrNotFound = errors.New("user not found")

// Filter narrows List results.
type Filter struct {
	Role     *entity.Role
	IsActive *bool
	Skip     int
	Limit    int
}

// Repository encapsulates read/write access for users.
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

// Create persists a new user using the write connection.
func (r *Repository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	ctx, span := repoTracer.Start(ctx, "UserRepository.Create", trace.WithAttributes(attribute.String("user.username", user.Username)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.GetByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return user, nil
}

// GetByUsername fetches a user by its unique username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.GetByUsername")
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return user, nil
}

// GetByEmail fetches a user by its unique email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return user, nil
}

// List returns users matching the filter.
func (r *Repository) List(ctx context.Context, filter Filter) ([]*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.List")
	defer span.End()

	var users []*entity.User
	q := r.reader.NewSelect().Model(&users)
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if err := q.Offset(filter.Skip).Limit(filter.Limit).Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return users, nil
}

// Update writes all columns of an already-loaded user.
func (r *Repository) Update(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	ctx, span := repoTracer.Start(ctx, "UserRepository.Update", trace.WithAttributes(attribute.Int64("user.id", user.ID)))
	defer span.End()

	_, err := r.writer.NewUpdate().Model(user).WherePK().Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// Delete removes a user and cascades to all of that user's orders, including
// their order_items rows. The cascade is explicit rather than delegated to
// the ORM so it holds on every supported driver.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "UserRepository.Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*entity.OrderItem)(nil)).
			Where("order_id IN (SELECT id FROM orders WHERE user_id = ?)", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*entity.Order)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*entity.User)(nil)).
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

// Count returns the total number of users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.Count")
	defer span.End()

	count, err := r.reader.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, err
	}
	return count, nil
}
