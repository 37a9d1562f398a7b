package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"skillswap-backend/internal/common/logger"
	"skillswap-backend/internal/common/validation"
	"skillswap-backend/internal/features/user/models"
	"skillswap-backend/internal/features/user/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already registered")
)

const defaultStartingPoints = 20

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, input *models.UserCreate) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, input *models.UserUpdate) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository

	// Shared with the session service. User records carry point balances
	// that enrollment debits and credits, so every read-check-mutate-write
	// on a user record must serialize under the same lock or a profile
	// write-back can erase a concurrent balance change.
	mu *sync.Mutex
}

func NewUserService(repo repository.UserRepository, mu *sync.Mutex) UserService {
	return &userService{
		repo: repo,
		mu:   mu,
	}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, input *models.UserCreate) (*models.User, error) {
	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidateFullName(input.FullName); err != nil {
		return nil, err
	}
	if err := validation.ValidateBio(input.Bio); err != nil {
		return nil, err
	}
	if err := validation.ValidateSkills(input.TeachableSkills); err != nil {
		return nil, err
	}
	if err := validation.ValidateSkills(input.LearningSkills); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Username and email must be unique across all users. The check and the
	// create happen under the lock so two racing requests cannot both pass.
	if _, err := s.repo.GetByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	}

	points := defaultStartingPoints
	if input.Points != nil {
		if err := validation.ValidateNonNegativeInt(*input.Points, "points"); err != nil {
			return nil, err
		}
		points = *input.Points
	}

	user := &models.User{
		ID:               uuid.New().String(),
		Username:         input.Username,
		Email:            input.Email,
		FullName:         input.FullName,
		Bio:              input.Bio,
		Points:           points,
		TeachableSkills:  emptyIfNil(input.TeachableSkills),
		LearningSkills:   emptyIfNil(input.LearningSkills),
		SessionsHosted:   0,
		SessionsAttended: 0,
		AverageRating:    0,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Debug().Str("user_id", user.ID).Str("username", user.Username).Msg("User created")

	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, input *models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if input.FullName != nil {
		if err := validation.ValidateFullName(*input.FullName); err != nil {
			return nil, err
		}
		user.FullName = *input.FullName
	}
	if input.Bio != nil {
		if err := validation.ValidateBio(*input.Bio); err != nil {
			return nil, err
		}
		user.Bio = *input.Bio
	}
	if input.TeachableSkills != nil {
		if err := validation.ValidateSkills(*input.TeachableSkills); err != nil {
			return nil, err
		}
		user.TeachableSkills = *input.TeachableSkills
	}
	if input.LearningSkills != nil {
		if err := validation.ValidateSkills(*input.LearningSkills); err != nil {
			return nil, err
		}
		user.LearningSkills = *input.LearningSkills
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func emptyIfNil(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
