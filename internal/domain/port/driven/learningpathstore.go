package driven

import (
	"context"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// LearningPathStore defines the driven port for learning path, goal, and
// progress persistence.
type LearningPathStore interface {
	SavePath(ctx context.Context, path model.LearningPath) error
	ListPathsByUser(ctx context.Context, userID string) ([]model.LearningPath, error)
	SaveGoal(ctx context.Context, goal model.LearningGoal) error
	ListGoalsByUser(ctx context.Context, userID string) ([]model.LearningGoal, error)
	SaveProgress(ctx context.Context, entry model.ProgressEntry) error
	ListProgressByUser(ctx context.Context, userID string) ([]model.ProgressEntry, error)
}
