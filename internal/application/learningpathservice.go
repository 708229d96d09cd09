package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// LearningPathService serves learning paths, goals, and progress. Users with
// no stored paths get paths generated from their latest analysis; users with
// no repository-specific data at all get the demo dataset.
type LearningPathService struct {
	paths    driven.LearningPathStore
	analyses driven.AnalysisStore
	logger   *slog.Logger
}

// NewLearningPathService creates a LearningPathService.
func NewLearningPathService(paths driven.LearningPathStore, analyses driven.AnalysisStore) *LearningPathService {
	return &LearningPathService{
		paths:    paths,
		analyses: analyses,
		logger:   slog.Default(),
	}
}

// PathsForUser returns the user's learning paths. Resolution order: stored
// paths; paths generated (and persisted) from the newest analysis; the demo
// dataset when the user has no repository-specific data.
func (s *LearningPathService) PathsForUser(ctx context.Context, userID string) ([]model.LearningPath, error) {
	stored, err := s.paths.ListPathsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list learning paths: %w", err)
	}
	if len(stored) > 0 {
		return stored, nil
	}

	records, err := s.analyses.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to list analyses, serving demo paths", "user_id", userID, "error", err)
		records = nil
	}
	if len(records) == 0 {
		return DemoPaths(), nil
	}

	generated := GeneratePaths(records[0], userID)
	for _, path := range generated {
		if err := s.paths.SavePath(ctx, path); err != nil {
			s.logger.Warn("failed to save generated path", "path", path.Title, "error", err)
		}
	}

	return generated, nil
}

// CreateGoal persists a learning goal, filling in ID, status, and timestamp.
func (s *LearningPathService) CreateGoal(ctx context.Context, goal model.LearningGoal) (*model.LearningGoal, error) {
	goal.ID = uuid.NewString()
	goal.CreatedAt = time.Now().UTC()
	if goal.Status == "" {
		goal.Status = "active"
	}

	if err := s.paths.SaveGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("save learning goal: %w", err)
	}
	return &goal, nil
}

// GoalsForUser lists a user's learning goals.
func (s *LearningPathService) GoalsForUser(ctx context.Context, userID string) ([]model.LearningGoal, error) {
	return s.paths.ListGoalsByUser(ctx, userID)
}

// RecordProgress persists a progress entry, filling in ID and timestamp.
func (s *LearningPathService) RecordProgress(ctx context.Context, entry model.ProgressEntry) (*model.ProgressEntry, error) {
	entry.ID = uuid.NewString()
	entry.UpdatedAt = time.Now().UTC()

	if err := s.paths.SaveProgress(ctx, entry); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return &entry, nil
}

// GeneratePaths builds one learning path per distinct suggestion category in
// the analysis. Difficulty follows the analysis score: below 40 beginner,
// below 70 intermediate, otherwise advanced. Implementation steps become
// modules in order.
func GeneratePaths(record model.AnalysisRecord, userID string) []model.LearningPath {
	difficulty := "advanced"
	switch {
	case record.Insights.DevOpsScore < 40:
		difficulty = "beginner"
	case record.Insights.DevOpsScore < 70:
		difficulty = "intermediate"
	}

	seen := map[string]bool{}
	var paths []model.LearningPath

	for _, suggestion := range record.Insights.Suggestions {
		if suggestion.Category == "" || seen[suggestion.Category] {
			continue
		}
		seen[suggestion.Category] = true

		modules := make([]model.LearningModule, 0, len(suggestion.ImplementationSteps))
		hours := 0
		for i, step := range suggestion.ImplementationSteps {
			modules = append(modules, model.LearningModule{
				ID:             uuid.NewString(),
				Title:          step,
				Description:    suggestion.Description,
				EstimatedHours: 2,
				OrderIndex:     i,
			})
			hours += 2
		}

		paths = append(paths, model.LearningPath{
			ID:             uuid.NewString(),
			UserID:         userID,
			Title:          suggestion.Title,
			Description:    suggestion.Description,
			Category:       suggestion.Category,
			Difficulty:     difficulty,
			EstimatedHours: hours,
			Tags:           []string{suggestion.Category, difficulty},
			Modules:        modules,
			FromAnalysisID: record.ID,
			CreatedAt:      time.Now().UTC(),
		})
	}

	return paths
}

// DemoPaths is the fixed sample dataset served to users with no
// repository-specific data: exactly two paths. Fabricated content by design,
// so the learning page is never empty.
func DemoPaths() []model.LearningPath {
	return []model.LearningPath{
		{
			ID:             "demo-path-cicd",
			Title:          "CI/CD Fundamentals",
			Description:    "Build your first automated pipeline: linting, tests, and deployment on every push.",
			Category:       "CI/CD",
			Difficulty:     "beginner",
			EstimatedHours: 8,
			Tags:           []string{"CI/CD", "beginner"},
			Modules: []model.LearningModule{
				{ID: "demo-cicd-1", Title: "Version control workflows", EstimatedHours: 2, OrderIndex: 0},
				{ID: "demo-cicd-2", Title: "Your first GitHub Actions workflow", EstimatedHours: 3, OrderIndex: 1},
				{ID: "demo-cicd-3", Title: "Automated testing gates", EstimatedHours: 3, OrderIndex: 2},
			},
		},
		{
			ID:             "demo-path-infra",
			Title:          "Containers and Infrastructure Automation",
			Description:    "Package services with Docker and describe environments as code.",
			Category:       "Infrastructure",
			Difficulty:     "intermediate",
			EstimatedHours: 12,
			Tags:           []string{"Infrastructure", "intermediate"},
			Modules: []model.LearningModule{
				{ID: "demo-infra-1", Title: "Docker fundamentals", EstimatedHours: 4, OrderIndex: 0},
				{ID: "demo-infra-2", Title: "Compose for local environments", EstimatedHours: 4, OrderIndex: 1},
				{ID: "demo-infra-3", Title: "Infrastructure as code basics", EstimatedHours: 4, OrderIndex: 2},
			},
		},
	}
}
