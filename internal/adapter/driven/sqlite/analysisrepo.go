package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AnalysisStore = (*AnalysisRepo)(nil)

// AnalysisRepo is the SQLite implementation of the AnalysisStore port
// interface. The full insight payload is serialized as JSON in a TEXT column;
// it is read back whole, never queried by field.
type AnalysisRepo struct {
	db *DB
}

// NewAnalysisRepo creates a new AnalysisRepo backed by the given DB.
func NewAnalysisRepo(db *DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

// Save inserts a completed insight run.
func (r *AnalysisRepo) Save(ctx context.Context, record model.AnalysisRecord) error {
	const query = `
		INSERT INTO analyses (id, user_id, repo_full_name, insights, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	insightsJSON, err := json.Marshal(record.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		record.ID, record.UserID, record.RepoFullName, string(insightsJSON),
		record.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save analysis %q: %w", record.ID, err)
	}

	return nil
}

// ListByUser returns the user's insight runs, newest first.
func (r *AnalysisRepo) ListByUser(ctx context.Context, userID string) ([]model.AnalysisRecord, error) {
	const query = `
		SELECT id, user_id, repo_full_name, insights, created_at
		FROM analyses
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var records []model.AnalysisRecord
	for rows.Next() {
		var record model.AnalysisRecord
		var insightsJSON string
		var createdAt string

		err := rows.Scan(
			&record.ID, &record.UserID, &record.RepoFullName,
			&insightsJSON, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}

		if err := json.Unmarshal([]byte(insightsJSON), &record.Insights); err != nil {
			return nil, fmt.Errorf("unmarshal insights: %w", err)
		}

		record.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}

	return records, nil
}
