package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian/internal/domain/model"
)

func makePath(id, userID string, createdAt time.Time) model.LearningPath {
	return model.LearningPath{
		ID:             id,
		UserID:         userID,
		Title:          "CI/CD Fundamentals",
		Description:    "Pipelines from scratch",
		Category:       "CI/CD",
		Difficulty:     "beginner",
		EstimatedHours: 6,
		Tags:           []string{"ci", "automation"},
		Modules: []model.LearningModule{
			{ID: id + "-m1", Title: "Your first workflow", EstimatedHours: 2, OrderIndex: 0},
			{ID: id + "-m2", Title: "Adding test gates", EstimatedHours: 2, OrderIndex: 1},
		},
		CreatedAt: createdAt,
	}
}

func TestLearningPathRepo_SaveAndListPaths(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearningPathRepo(db)
	ctx := context.Background()

	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SavePath(ctx, makePath("lp1", "u1", created)))
	require.NoError(t, repo.SavePath(ctx, makePath("lp2", "u1", created.Add(time.Hour))))
	require.NoError(t, repo.SavePath(ctx, makePath("lp3", "other", created)))

	paths, err := repo.ListPathsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, "lp1", paths[0].ID)
	assert.Equal(t, "CI/CD", paths[0].Category)
	assert.Equal(t, []string{"ci", "automation"}, paths[0].Tags)
	require.Len(t, paths[0].Modules, 2)
	assert.Equal(t, "Your first workflow", paths[0].Modules[0].Title)
}

func TestLearningPathRepo_SavePath_Replaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearningPathRepo(db)
	ctx := context.Background()

	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	path := makePath("lp1", "u1", created)
	require.NoError(t, repo.SavePath(ctx, path))

	path.Title = "CI/CD Deep Dive"
	require.NoError(t, repo.SavePath(ctx, path))

	paths, err := repo.ListPathsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "CI/CD Deep Dive", paths[0].Title)
}

func TestLearningPathRepo_Goals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearningPathRepo(db)
	ctx := context.Background()

	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveGoal(ctx, model.LearningGoal{
		ID: "g1", UserID: "u1", Title: "Learn Terraform",
		Priority: "high", Status: "active", CreatedAt: created,
	}))
	require.NoError(t, repo.SaveGoal(ctx, model.LearningGoal{
		ID: "g2", UserID: "u1", Title: "Ship a pipeline",
		Priority: "medium", Status: "active", CreatedAt: created.Add(time.Hour),
	}))

	goals, err := repo.ListGoalsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, goals, 2)

	// Newest first.
	assert.Equal(t, "g2", goals[0].ID)
	assert.Equal(t, "Learn Terraform", goals[1].Title)
	assert.Equal(t, "high", goals[1].Priority)
}

func TestLearningPathRepo_Progress(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearningPathRepo(db)
	ctx := context.Background()

	updated := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveProgress(ctx, model.ProgressEntry{
		ID: "pr1", UserID: "u1", PathID: "lp1", ModuleID: "lp1-m1",
		TimeSpentMinutes: 45, Completed: true, Notes: "done on first try",
		UpdatedAt: updated,
	}))

	entries, err := repo.ListProgressByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "lp1-m1", entries[0].ModuleID)
	assert.Equal(t, 45, entries[0].TimeSpentMinutes)
	assert.True(t, entries[0].Completed)
	assert.Equal(t, "done on first try", entries[0].Notes)
}

func TestLearningPathRepo_ListPathsByUser_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearningPathRepo(db)

	paths, err := repo.ListPathsByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, paths)
}
