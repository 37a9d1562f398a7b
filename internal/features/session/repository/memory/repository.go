package memory

import (
	"context"
	"sort"
	"sync"

	"skillswap-backend/internal/features/session/models"
	"skillswap-backend/internal/features/session/repository"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewSessionRepository returns an in-memory session store.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{
		sessions: make(map[string]*models.Session),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return repository.ErrSessionNotFound
	}
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *sessionRepository) GetAll(ctx context.Context) ([]*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*models.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, cloneSession(session))
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Datetime.Before(sessions[j].Datetime)
	})
	return sessions, nil
}

func (r *sessionRepository) GetByHost(ctx context.Context, hostID string) ([]*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*models.Session
	for _, session := range r.sessions {
		if session.HostID == hostID {
			sessions = append(sessions, cloneSession(session))
		}
	}
	return sessions, nil
}

func (r *sessionRepository) GetByParticipant(ctx context.Context, userID string) ([]*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*models.Session
	for _, session := range r.sessions {
		if session.IsParticipant(userID) {
			sessions = append(sessions, cloneSession(session))
		}
	}
	return sessions, nil
}

// cloneSession keeps the store the exclusive owner of record state.
func cloneSession(s *models.Session) *models.Session {
	cp := *s
	cp.Participants = append([]string(nil), s.Participants...)
	if s.PaidCosts != nil {
		cp.PaidCosts = make(map[string]int, len(s.PaidCosts))
		for k, v := range s.PaidCosts {
			cp.PaidCosts[k] = v
		}
	}
	return &cp
}
