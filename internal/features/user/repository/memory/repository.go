package memory

import (
	"context"
	"sync"

	"skillswap-backend/internal/features/user/models"
	"skillswap-backend/internal/features/user/repository"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewUserRepository returns an in-memory user store. Records live for the
// lifetime of the process.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		users: make(map[string]*models.User),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return repository.ErrUserExists
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

// cloneUser keeps the store the exclusive owner of record state.
func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.TeachableSkills = append([]string(nil), u.TeachableSkills...)
	cp.LearningSkills = append([]string(nil), u.LearningSkills...)
	return &cp
}
