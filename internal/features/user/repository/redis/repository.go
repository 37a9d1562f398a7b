package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"skillswap-backend/internal/features/user/models"
	"skillswap-backend/internal/features/user/repository"
)

const (
	keyPrefixUser  = "user:"
	keyUsernameIdx = "users:by_username"
	keyEmailIdx    = "users:by_email"
)

type userRepository struct {
	client *redis.Client
}

// NewUserRepository returns a Redis-backed user store. Records are stored as
// JSON under user:<id>, with hash indexes for username and email lookups.
func NewUserRepository(client *redis.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func makeUserKey(id string) string {
	return keyPrefixUser + id
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	// SetNX claims the ID; an existing record is never overwritten. The
	// index fields use HSetNX for the same reason.
	ok, err := r.client.SetNX(ctx, makeUserKey(user.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrUserExists
	}

	pipe := r.client.Pipeline()
	pipe.HSetNX(ctx, keyUsernameIdx, user.Username, user.ID)
	pipe.HSetNX(ctx, keyEmailIdx, user.Email, user.ID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	data, err := r.client.Get(ctx, makeUserKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	id, err := r.client.HGet(ctx, keyUsernameIdx, username).Result()
	if err == redis.Nil {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.client.HGet(ctx, keyEmailIdx, email).Result()
	if err == redis.Nil {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	exists, err := r.client.Exists(ctx, makeUserKey(user.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return repository.ErrUserNotFound
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	// Username and email are immutable after registration, so the index
	// hashes need no rewrite here.
	return r.client.Set(ctx, makeUserKey(user.ID), data, 0).Err()
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	iter := r.client.Scan(ctx, 0, keyPrefixUser+"*", 0).Iterator()

	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var user models.User
		if err := json.Unmarshal(data, &user); err != nil {
			continue
		}
		users = append(users, &user)
	}

	return users, iter.Err()
}
