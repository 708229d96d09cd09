package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AssessmentStore = (*AssessmentRepo)(nil)

// AssessmentRepo is the SQLite implementation of the AssessmentStore port
// interface. Responses are serialized as a JSON array in the TEXT column.
type AssessmentRepo struct {
	db *DB
}

// NewAssessmentRepo creates a new AssessmentRepo backed by the given DB.
func NewAssessmentRepo(db *DB) *AssessmentRepo {
	return &AssessmentRepo{db: db}
}

// Save inserts a submitted assessment.
func (r *AssessmentRepo) Save(ctx context.Context, assessment model.Assessment) error {
	const query = `
		INSERT INTO assessments (id, user_id, responses, overall_score, maturity_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	responses := assessment.Responses
	if responses == nil {
		responses = []model.PracticeScore{}
	}
	responsesJSON, err := json.Marshal(responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		assessment.ID, assessment.UserID, string(responsesJSON),
		assessment.OverallScore, assessment.MaturityLevel,
		assessment.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save assessment %q: %w", assessment.ID, err)
	}

	return nil
}

// GetByID retrieves a single assessment.
// Returns driven.ErrAssessmentNotFound when no row matches.
func (r *AssessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	const query = assessmentSelect + ` WHERE id = ?`

	assessment, err := scanAssessment(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %q: %w", id, err)
	}

	return assessment, nil
}

// ListByUser returns the user's assessments, newest first.
func (r *AssessmentRepo) ListByUser(ctx context.Context, userID string) ([]model.Assessment, error) {
	const query = assessmentSelect + ` WHERE user_id = ? ORDER BY created_at DESC, id`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []model.Assessment
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		assessments = append(assessments, *assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}

	return assessments, nil
}

const assessmentSelect = `
	SELECT id, user_id, responses, overall_score, maturity_level, created_at
	FROM assessments
`

func scanAssessment(s scanner) (*model.Assessment, error) {
	var assessment model.Assessment
	var responsesJSON string
	var createdAt string

	err := s.Scan(
		&assessment.ID, &assessment.UserID, &responsesJSON,
		&assessment.OverallScore, &assessment.MaturityLevel, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(responsesJSON), &assessment.Responses); err != nil {
		return nil, fmt.Errorf("unmarshal responses: %w", err)
	}

	assessment.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &assessment, nil
}
