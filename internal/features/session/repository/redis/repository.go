package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"skillswap-backend/internal/features/session/models"
	"skillswap-backend/internal/features/session/repository"
)

const (
	keyPrefixSession = "session:"
	keyAllSessions   = "sessions:all"
)

type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository returns a Redis-backed session store. Records are
// stored as JSON under session:<id>; sessions:all tracks the id set.
func NewSessionRepository(client *redis.Client) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func makeSessionKey(id string) string {
	return keyPrefixSession + id
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeSessionKey(session.ID), data, 0)
	pipe.SAdd(ctx, keyAllSessions, session.ID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, makeSessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	exists, err := r.client.Exists(ctx, makeSessionKey(session.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return repository.ErrSessionNotFound
	}
	return r.Create(ctx, session)
}

func (r *sessionRepository) GetAll(ctx context.Context) ([]*models.Session, error) {
	ids, err := r.client.SMembers(ctx, keyAllSessions).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*models.Session, 0, len(ids))
	for _, id := range ids {
		session, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Datetime.Before(sessions[j].Datetime)
	})
	return sessions, nil
}

func (r *sessionRepository) GetByHost(ctx context.Context, hostID string) ([]*models.Session, error) {
	sessions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var result []*models.Session
	for _, session := range sessions {
		if session.HostID == hostID {
			result = append(result, session)
		}
	}
	return result, nil
}

func (r *sessionRepository) GetByParticipant(ctx context.Context, userID string) ([]*models.Session, error) {
	sessions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var result []*models.Session
	for _, session := range sessions {
		if session.IsParticipant(userID) {
			result = append(result, session)
		}
	}
	return result, nil
}
