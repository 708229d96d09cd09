package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// InsightService produces AI insights for a repository. On any engine failure
// it substitutes a fixed fallback insight object so the dashboard never shows
// an empty state. No retry, no backoff.
type InsightService struct {
	engine   driven.InsightEngine
	analyses driven.AnalysisStore
	logger   *slog.Logger
}

// NewInsightService creates an InsightService. engine may be nil (no API key
// configured), in which case every analysis is the fallback. analyses may be
// nil to disable persistence.
func NewInsightService(engine driven.InsightEngine, analyses driven.AnalysisStore) *InsightService {
	return &InsightService{
		engine:   engine,
		analyses: analyses,
		logger:   slog.Default(),
	}
}

// Analyze runs the engine for one repository and records the result for the
// user. Persistence failures are logged, not surfaced; the insights are
// returned either way.
func (s *InsightService) Analyze(ctx context.Context, userID string, repo model.Repository, files map[string]string, persona model.Persona) model.AIInsights {
	insights := s.fetch(ctx, repo, files, persona)

	if s.analyses != nil && userID != "" {
		record := model.AnalysisRecord{
			ID:           uuid.NewString(),
			UserID:       userID,
			RepoFullName: repo.FullName,
			Insights:     insights,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.analyses.Save(ctx, record); err != nil {
			s.logger.Warn("failed to save analysis record", "user_id", userID, "repo", repo.FullName, "error", err)
		}
	}

	return insights
}

func (s *InsightService) fetch(ctx context.Context, repo model.Repository, files map[string]string, persona model.Persona) model.AIInsights {
	if s.engine == nil {
		return FallbackInsights(persona)
	}

	insights, err := s.engine.Analyze(ctx, repo, files, persona)
	if err != nil {
		s.logger.Warn("insight engine failed, using fallback", "repo", repo.FullName, "error", err)
		return FallbackInsights(persona)
	}

	return *insights
}

// FallbackInsights is the fixed insight object substituted when the engine is
// unavailable or returns garbage. The content is fabricated by design: the
// dashboard prefers a plausible suggestion over an empty panel.
func FallbackInsights(persona model.Persona) model.AIInsights {
	return model.AIInsights{
		Persona:     persona,
		DevOpsScore: 45,
		Suggestions: []model.Suggestion{
			{
				Category:    "CI/CD",
				Priority:    "High",
				Title:       "Implement Continuous Integration",
				Description: "Set up automated testing and deployment pipeline",
				ImplementationSteps: []string{
					"Choose CI/CD platform (GitHub Actions, GitLab CI, etc.)",
					"Create workflow configuration",
					"Add automated testing",
				},
				Resources:       []string{"CI/CD Best Practices Guide", "Platform Documentation"},
				EstimatedEffort: "1-2 days",
				BusinessImpact:  "Reduces deployment risks and improves code quality",
			},
		},
		AnalysisSummary: "Basic analysis completed. AI analysis temporarily unavailable.",
		GeneratedAt:     time.Now().UTC(),
	}
}
