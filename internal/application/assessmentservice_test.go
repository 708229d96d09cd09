package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian/internal/application"
	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// memAssessmentStore is an in-memory driven.AssessmentStore. ListByUser
// returns newest first, matching the real store's ordering contract.
type memAssessmentStore struct {
	assessments []model.Assessment
}

func (m *memAssessmentStore) Save(_ context.Context, a model.Assessment) error {
	// Prepend: newest first.
	m.assessments = append([]model.Assessment{a}, m.assessments...)
	return nil
}

func (m *memAssessmentStore) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	for _, a := range m.assessments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, driven.ErrAssessmentNotFound
}

func (m *memAssessmentStore) ListByUser(_ context.Context, userID string) ([]model.Assessment, error) {
	var out []model.Assessment
	for _, a := range m.assessments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestAssessmentService_Submit(t *testing.T) {
	svc := application.NewAssessmentService(&memAssessmentStore{})

	assessment, err := svc.Submit(context.Background(), "user-1", []model.PracticeScore{
		{Practice: "continuous integration", Score: 80},
		{Practice: "monitoring", Score: 40},
	})

	require.NoError(t, err)
	assert.Equal(t, 60, assessment.OverallScore)
	assert.Equal(t, "Intermediate", assessment.MaturityLevel)
	assert.NotEmpty(t, assessment.ID)
}

func TestAssessmentService_SubmitClampsScores(t *testing.T) {
	svc := application.NewAssessmentService(&memAssessmentStore{})

	assessment, err := svc.Submit(context.Background(), "user-1", []model.PracticeScore{
		{Practice: "ci", Score: 250},
		{Practice: "cd", Score: -40},
	})

	require.NoError(t, err)
	assert.Equal(t, 50, assessment.OverallScore)
	assert.Equal(t, 100, assessment.Responses[0].Score)
	assert.Equal(t, 0, assessment.Responses[1].Score)
}

func TestAssessmentService_SubmitEmpty(t *testing.T) {
	svc := application.NewAssessmentService(&memAssessmentStore{})

	_, err := svc.Submit(context.Background(), "user-1", nil)

	assert.ErrorIs(t, err, application.ErrNoResponses)
}

func TestAssessmentService_MaturityBands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{score: 85, want: "Advanced"},
		{score: 60, want: "Intermediate"},
		{score: 45, want: "Basic"},
		{score: 10, want: "Beginner"},
	}

	for _, tc := range cases {
		svc := application.NewAssessmentService(&memAssessmentStore{})
		assessment, err := svc.Submit(context.Background(), "user-1", []model.PracticeScore{
			{Practice: "ci", Score: tc.score},
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, assessment.MaturityLevel, "score %d", tc.score)
	}
}

func TestAssessmentService_HistoryTrend(t *testing.T) {
	store := &memAssessmentStore{}
	svc := application.NewAssessmentService(store)

	t.Run("no assessments -> steady", func(t *testing.T) {
		_, trend, err := svc.History(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "steady", trend.Direction)
		assert.Zero(t, trend.Delta)
	})

	_, err := svc.Submit(context.Background(), "user-1", []model.PracticeScore{{Practice: "ci", Score: 40}})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), "user-1", []model.PracticeScore{{Practice: "ci", Score: 70}})
	require.NoError(t, err)

	t.Run("rising scores -> improving", func(t *testing.T) {
		history, trend, err := svc.History(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "improving", trend.Direction)
		assert.Equal(t, 30, trend.Delta)
	})

	_, err = svc.Submit(context.Background(), "user-1", []model.PracticeScore{{Practice: "ci", Score: 50}})
	require.NoError(t, err)

	t.Run("falling scores -> declining", func(t *testing.T) {
		_, trend, err := svc.History(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "declining", trend.Direction)
		assert.Equal(t, -20, trend.Delta)
	})

	_, err = svc.Submit(context.Background(), "user-1", []model.PracticeScore{{Practice: "ci", Score: 53}})
	require.NoError(t, err)

	t.Run("small rise stays steady", func(t *testing.T) {
		_, trend, err := svc.History(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "steady", trend.Direction)
		assert.Equal(t, 3, trend.Delta)
	})

	_, err = svc.Submit(context.Background(), "user-1", []model.PracticeScore{{Practice: "ci", Score: 48}})
	require.NoError(t, err)

	t.Run("band edge stays steady", func(t *testing.T) {
		_, trend, err := svc.History(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "steady", trend.Direction)
		assert.Equal(t, -5, trend.Delta)
	})

	_, err = svc.Submit(context.Background(), "user-1", []model.PracticeScore{{Practice: "ci", Score: 54}})
	require.NoError(t, err)

	t.Run("just past the band -> improving", func(t *testing.T) {
		_, trend, err := svc.History(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "improving", trend.Direction)
		assert.Equal(t, 6, trend.Delta)
	})
}
