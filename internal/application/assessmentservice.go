package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// ErrNoResponses indicates an assessment submission without any answers.
var ErrNoResponses = errors.New("assessment has no responses")

// AssessmentService scores and stores DevOps culture self-assessments.
type AssessmentService struct {
	store driven.AssessmentStore
}

// NewAssessmentService creates an AssessmentService.
func NewAssessmentService(store driven.AssessmentStore) *AssessmentService {
	return &AssessmentService{store: store}
}

// Submit scores a set of practice responses and persists the assessment.
// The overall score is the mean of the individual scores, each clamped to
// [0,100] before averaging.
func (s *AssessmentService) Submit(ctx context.Context, userID string, responses []model.PracticeScore) (*model.Assessment, error) {
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}

	total := 0
	for i := range responses {
		responses[i].Score = clampScore(responses[i].Score)
		total += responses[i].Score
	}
	overall := clampScore(total / len(responses))

	assessment := model.Assessment{
		ID:            uuid.NewString(),
		UserID:        userID,
		Responses:     responses,
		OverallScore:  overall,
		MaturityLevel: model.MaturityLevel(overall),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.Save(ctx, assessment); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	return &assessment, nil
}

// Get returns one assessment by ID.
func (s *AssessmentService) Get(ctx context.Context, id string) (*model.Assessment, error) {
	return s.store.GetByID(ctx, id)
}

// steadyBand is the score delta treated as noise rather than a trend.
const steadyBand = 5

// History returns a user's assessments newest first with the trend between the
// two most recent overall scores. Deltas within ±steadyBand read as "steady".
func (s *AssessmentService) History(ctx context.Context, userID string) ([]model.Assessment, model.Trend, error) {
	assessments, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, model.Trend{}, fmt.Errorf("list assessments: %w", err)
	}

	trend := model.Trend{Direction: "steady"}
	if len(assessments) >= 2 {
		trend.Delta = assessments[0].OverallScore - assessments[1].OverallScore
		switch {
		case trend.Delta > steadyBand:
			trend.Direction = "improving"
		case trend.Delta < -steadyBand:
			trend.Direction = "declining"
		}
	}

	return assessments, trend, nil
}
