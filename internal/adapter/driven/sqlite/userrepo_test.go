package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

func makeUser(id, email string) model.User {
	return model.User{
		ID:        id,
		Name:      "Ada Lovelace",
		Email:     email,
		Role:      model.RoleProfessional,
		Skills:    []string{"go", "terraform"},
		CreatedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeUser("u1", "ada@example.com")))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, model.RoleProfessional, got.Role)
	assert.Equal(t, []string{"go", "terraform"}, got.Skills)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeUser("u1", "ada@example.com")))

	err := repo.Create(ctx, makeUser("u2", "ada@example.com"))
	assert.ErrorIs(t, err, driven.ErrEmailTaken)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeUser("u1", "ada@example.com")))

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, driven.ErrUserNotFound)
}

func TestUserRepo_GetByGitHubID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	user := makeUser("u1", "ada@example.com")
	user.GitHubID = 42
	user.GitHubUsername = "ada"
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByGitHubID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "ada", got.GitHubUsername)

	// The zero GitHub ID marks unlinked accounts and must never match.
	_, err = repo.GetByGitHubID(ctx, 0)
	assert.ErrorIs(t, err, driven.ErrUserNotFound)
}

func TestUserRepo_UpdateRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeUser("u1", "ada@example.com")))

	require.NoError(t, repo.UpdateRole(ctx, "u1", model.RoleManager))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, got.Role)

	err = repo.UpdateRole(ctx, "missing", model.RoleManager)
	assert.ErrorIs(t, err, driven.ErrUserNotFound)
}

func TestUserRepo_UpdateSkills(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeUser("u1", "ada@example.com")))

	require.NoError(t, repo.UpdateSkills(ctx, "u1", []string{"kubernetes"}))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes"}, got.Skills)
}

func TestUserRepo_UpdateGitHubData(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeUser("u1", "ada@example.com")))

	profile := model.GitHubProfile{
		ID:          42,
		Username:    "ada",
		AvatarURL:   "https://example.com/a.png",
		AccessToken: "gho_secret",
	}
	require.NoError(t, repo.UpdateGitHubData(ctx, "u1", profile))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.GitHubID)
	assert.Equal(t, "ada", got.GitHubUsername)
	assert.Equal(t, "gho_secret", got.GitHubToken)
}
