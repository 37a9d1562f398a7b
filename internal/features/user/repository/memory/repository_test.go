package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap-backend/internal/features/user/models"
	"skillswap-backend/internal/features/user/repository"
)

func newUser(id, username, email string) *models.User {
	return &models.User{
		ID:              id,
		Username:        username,
		Email:           email,
		FullName:        "User " + id,
		Points:          20,
		TeachableSkills: []string{"Go"},
		LearningSkills:  []string{},
	}
}

func TestLookupByUsernameAndEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "janesmitty", "jane@example.com")))
	require.NoError(t, repo.Create(ctx, newUser("u2", "mikejohnson", "mike@example.com")))

	byName, err := repo.GetByUsername(ctx, "janesmitty")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "mike@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", byEmail.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "janesmitty", "jane@example.com")))

	err := repo.Create(ctx, newUser("u1", "impostor", "other@example.com"))
	assert.ErrorIs(t, err, repository.ErrUserExists)

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "janesmitty", user.Username, "the first record must survive untouched")
}

func TestUpdateRequiresExistingRecord(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	err := repo.Update(ctx, newUser("ghost", "ghost", "ghost@example.com"))
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, newUser("u1", "janesmitty", "jane@example.com")))

	updated := newUser("u1", "janesmitty", "jane@example.com")
	updated.Points = 13
	require.NoError(t, repo.Update(ctx, updated))

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 13, user.Points)
}

func TestStoreOwnsUserState(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	original := newUser("u1", "janesmitty", "jane@example.com")
	require.NoError(t, repo.Create(ctx, original))

	original.TeachableSkills[0] = "hacked"
	original.Points = 0

	stored, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, stored.TeachableSkills)
	assert.Equal(t, 20, stored.Points)
}

func TestList(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, repo.Create(ctx, newUser("u1", "a", "a@example.com")))
	require.NoError(t, repo.Create(ctx, newUser("u2", "b", "b@example.com")))

	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
