package driven

import (
	"context"
	"errors"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// ErrAssessmentNotFound indicates the requested assessment does not exist.
var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentStore defines the driven port for culture assessment persistence.
// GetByID returns ErrAssessmentNotFound when no row matches.
// ListByUser returns assessments newest first.
type AssessmentStore interface {
	Save(ctx context.Context, assessment model.Assessment) error
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Assessment, error)
}
