package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-users-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the given id or email.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a create or update collides with an
	// existing email or username. The colliding column is deliberately
	// not disclosed.
	ErrDuplicate = errors.New("email or username already registered")
)

// UserUpdate carries a partial field set for Update. Nil fields are left
// untouched.
type UserUpdate struct {
	Email        *string
	Username     *string
	PasswordHash *string
	IsActive     *bool
	IsSuperuser  *bool
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*entity.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}
