package repository

import (
	"context"
	"errors"

	"github.com/edustream/auth-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no account matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when case-insensitive email uniqueness
	// rejects a create or update.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the persistence boundary for accounts.
// Implementations receive email addresses already normalized by the
// application layer and must enforce case-insensitive uniqueness.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// UpdatePassword stores an already-hashed password; callers signal the
	// change-password intent explicitly instead of relying on dirty tracking.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
}
