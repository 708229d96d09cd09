package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianhq/meridian/internal/application"
	"github.com/meridianhq/meridian/internal/domain/model"
)

func repoWith(language, description string, stars int, private bool) model.Repository {
	return model.Repository{
		Name:        "repo",
		FullName:    "octocat/repo",
		Language:    language,
		Description: description,
		Stars:       stars,
		Private:     private,
	}
}

func TestComputeDevOpsMetrics_EmptyList(t *testing.T) {
	metrics := application.ComputeDevOpsMetrics(nil)

	assert.Equal(t, model.DevOpsMetrics{}, metrics)

	metrics = application.ComputeDevOpsMetrics([]model.Repository{})
	assert.Equal(t, 0, metrics.OverallScore)
	assert.Equal(t, 0, metrics.TotalRepositories)
}

func TestComputeDevOpsMetrics_SecurityContributions(t *testing.T) {
	t.Run("private repo with 0 stars contributes 0", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("Go", "", 0, true),
		})
		assert.Equal(t, 0, metrics.SecurityScore)
	})

	t.Run("public repo with 6 stars contributes 25", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("Go", "", 6, false),
		})
		assert.Equal(t, 25, metrics.SecurityScore)
	})

	t.Run("exactly 5 stars does not earn the star bonus", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("Go", "", 5, false),
		})
		assert.Equal(t, 10, metrics.SecurityScore)
	})
}

func TestComputeDevOpsMetrics_CICDLanguages(t *testing.T) {
	t.Run("TypeScript earns 20", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("TypeScript", "", 0, true),
		})
		assert.Equal(t, 20, metrics.CICDScore)
	})

	t.Run("Python earns 15", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("Python", "", 0, true),
		})
		assert.Equal(t, 15, metrics.CICDScore)
	})

	t.Run("other languages earn 0", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("Haskell", "", 0, true),
		})
		assert.Equal(t, 0, metrics.CICDScore)
	})
}

func TestComputeDevOpsMetrics_Documentation(t *testing.T) {
	t.Run("long description earns 25", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("Go", "a description longer than twenty characters", 0, true),
		})
		assert.Equal(t, 25, metrics.DocumentationScore)
	})

	t.Run("short description earns 0", func(t *testing.T) {
		metrics := application.ComputeDevOpsMetrics([]model.Repository{
			repoWith("Go", "short", 0, true),
		})
		assert.Equal(t, 0, metrics.DocumentationScore)
	})
}

func TestComputeDevOpsMetrics_Averaging(t *testing.T) {
	// One TypeScript repo (ci 20) and one language-less repo (ci 0):
	// the category average is 10.
	metrics := application.ComputeDevOpsMetrics([]model.Repository{
		repoWith("TypeScript", "", 0, true),
		repoWith("", "", 0, true),
	})

	assert.Equal(t, 10, metrics.CICDScore)
	assert.Equal(t, 2, metrics.RepositoriesAnalyzed)
	assert.Equal(t, 2, metrics.TotalRepositories)
}

func TestComputeDevOpsMetrics_Overall(t *testing.T) {
	// Single repo: ci 20, security 25, documentation 25, automation 20.
	// Overall = floor(90 / 4) = 22.
	metrics := application.ComputeDevOpsMetrics([]model.Repository{
		repoWith("TypeScript", "a description longer than twenty characters", 6, false),
	})

	assert.Equal(t, 22, metrics.OverallScore)
}

func TestComputeDevOpsMetrics_ScoresBounded(t *testing.T) {
	lists := [][]model.Repository{
		nil,
		{repoWith("TypeScript", "a description longer than twenty characters", 100, false)},
		{
			repoWith("Python", "short", 0, true),
			repoWith("Rust", "another long description over twenty chars", 50, false),
			repoWith("", "", 0, false),
		},
	}

	for _, repos := range lists {
		metrics := application.ComputeDevOpsMetrics(repos)
		for _, score := range []int{
			metrics.OverallScore,
			metrics.CICDScore,
			metrics.SecurityScore,
			metrics.DocumentationScore,
			metrics.AutomationScore,
		} {
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}
