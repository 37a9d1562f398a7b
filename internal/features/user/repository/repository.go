package repository

import (
	"context"
	"errors"

	"skillswap-backend/internal/features/user/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user id already exists")
)

// UserRepository is the identifier-keyed store for user records. The store
// owns record state: implementations return copies, so callers never hold a
// mutable alias into the store.
type UserRepository interface {
	// Create rejects an ID that is already present rather than overwriting.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}
