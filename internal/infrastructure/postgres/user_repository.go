package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustream/auth-service/internal/domain/entity"
	"github.com/edustream/auth-service/internal/domain/repository"
)

const (
	uniqueViolation = "23505"

	defaultQueryTimeout = 2 * time.Second
)

type UserRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewUserRepository(pool *pgxpool.Pool, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &UserRepository{pool: pool, timeout: timeout}
}

// opCtx bounds a single round-trip. A stalled connection then fails with
// context.DeadlineExceeded instead of hanging the request, which carries
// no deadline of its own.
func (r *UserRepository) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, avatar_url, role, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, entity.NormalizeEmail(u.Email), u.Password, u.FullName, u.AvatarURL, u.Role.String(), u.IsActive, u.IsVerified)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapPGError(err)
	}
	u.Email = entity.NormalizeEmail(u.Email)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = $1", entity.NormalizeEmail(email))
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*entity.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	u := &entity.User{}
	var role string

	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, avatar_url, role, is_active, is_verified, created_at, updated_at
		FROM users
		WHERE `+where, arg)

	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.AvatarURL,
		&role, &u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	parsed, err := entity.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, full_name = $2, avatar_url = $3, role = $4, is_active = $5, is_verified = $6, updated_at = $7
		WHERE id = $8
	`, entity.NormalizeEmail(u.Email), u.FullName, u.AvatarURL, u.Role.String(), u.IsActive, u.IsVerified, u.UpdatedAt, u.ID)
	if err != nil {
		return mapPGError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.pool.Exec(ctx, `
		UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2
	`, active, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
