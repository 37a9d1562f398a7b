package repository

import (
	"context"
	"errors"

	"skillswap-backend/internal/features/session/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository is the identifier-keyed store for session records.
// Implementations return copies; callers never hold a mutable alias into
// the store.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error

	// GetAll returns every session ordered ascending by datetime.
	GetAll(ctx context.Context) ([]*models.Session, error)
	GetByHost(ctx context.Context, hostID string) ([]*models.Session, error)
	GetByParticipant(ctx context.Context, userID string) ([]*models.Session, error)
}
