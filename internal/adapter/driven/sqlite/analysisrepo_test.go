package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian/internal/domain/model"
)

func makeAnalysis(id, userID string, createdAt time.Time) model.AnalysisRecord {
	return model.AnalysisRecord{
		ID:           id,
		UserID:       userID,
		RepoFullName: "octocat/api",
		Insights: model.AIInsights{
			Persona:     model.PersonaProfessional,
			DevOpsScore: 72,
			Suggestions: []model.Suggestion{
				{
					Category:            "Testing",
					Priority:            "Medium",
					Title:               "Add integration tests",
					ImplementationSteps: []string{"pick a framework", "wire into CI"},
				},
			},
			AnalysisSummary: "DevOps Maturity: Intermediate (72/100).",
			GeneratedAt:     createdAt,
		},
		CreatedAt: createdAt,
	}
}

func TestAnalysisRepo_SaveAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalysisRepo(db)
	ctx := context.Background()

	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, makeAnalysis("an1", "u1", created)))

	records, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, "octocat/api", got.RepoFullName)
	assert.Equal(t, model.PersonaProfessional, got.Insights.Persona)
	assert.Equal(t, 72, got.Insights.DevOpsScore)
	require.Len(t, got.Insights.Suggestions, 1)
	assert.Equal(t, "Add integration tests", got.Insights.Suggestions[0].Title)
	assert.Equal(t, []string{"pick a framework", "wire into CI"}, got.Insights.Suggestions[0].ImplementationSteps)
}

func TestAnalysisRepo_ListByUser_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalysisRepo(db)
	ctx := context.Background()

	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, makeAnalysis("an1", "u1", created)))
	require.NoError(t, repo.Save(ctx, makeAnalysis("an2", "u1", created.Add(time.Hour))))
	require.NoError(t, repo.Save(ctx, makeAnalysis("an3", "other", created)))

	records, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "an2", records[0].ID)
	assert.Equal(t, "an1", records[1].ID)
}
