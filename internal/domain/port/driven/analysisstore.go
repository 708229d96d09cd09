package driven

import (
	"context"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// AnalysisStore defines the driven port for persisted insight runs.
// ListByUser returns records newest first.
type AnalysisStore interface {
	Save(ctx context.Context, record model.AnalysisRecord) error
	ListByUser(ctx context.Context, userID string) ([]model.AnalysisRecord, error)
}
