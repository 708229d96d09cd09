package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LearningPathStore = (*LearningPathRepo)(nil)

// LearningPathRepo is the SQLite implementation of the LearningPathStore port
// interface. Tags and modules are serialized as JSON in TEXT columns.
type LearningPathRepo struct {
	db *DB
}

// NewLearningPathRepo creates a new LearningPathRepo backed by the given DB.
func NewLearningPathRepo(db *DB) *LearningPathRepo {
	return &LearningPathRepo{db: db}
}

// SavePath inserts or replaces a learning path.
func (r *LearningPathRepo) SavePath(ctx context.Context, path model.LearningPath) error {
	const query = `
		INSERT OR REPLACE INTO learning_paths (
			id, user_id, title, description, category, difficulty,
			estimated_hours, tags, modules, from_analysis_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	tags := path.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	modules := path.Modules
	if modules == nil {
		modules = []model.LearningModule{}
	}
	modulesJSON, err := json.Marshal(modules)
	if err != nil {
		return fmt.Errorf("marshal modules: %w", err)
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		path.ID, path.UserID, path.Title, path.Description, path.Category,
		path.Difficulty, path.EstimatedHours, string(tagsJSON),
		string(modulesJSON), path.FromAnalysisID, path.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save learning path %q: %w", path.ID, err)
	}

	return nil
}

// ListPathsByUser returns the user's learning paths, oldest first.
func (r *LearningPathRepo) ListPathsByUser(ctx context.Context, userID string) ([]model.LearningPath, error) {
	const query = `
		SELECT id, user_id, title, description, category, difficulty,
		       estimated_hours, tags, modules, from_analysis_id, created_at
		FROM learning_paths
		WHERE user_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query learning paths: %w", err)
	}
	defer rows.Close()

	var paths []model.LearningPath
	for rows.Next() {
		var path model.LearningPath
		var tagsJSON, modulesJSON string
		var createdAt string

		err := rows.Scan(
			&path.ID, &path.UserID, &path.Title, &path.Description,
			&path.Category, &path.Difficulty, &path.EstimatedHours,
			&tagsJSON, &modulesJSON, &path.FromAnalysisID, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan learning path: %w", err)
		}

		if err := json.Unmarshal([]byte(tagsJSON), &path.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		if err := json.Unmarshal([]byte(modulesJSON), &path.Modules); err != nil {
			return nil, fmt.Errorf("unmarshal modules: %w", err)
		}

		path.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		paths = append(paths, path)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learning paths: %w", err)
	}

	return paths, nil
}

// SaveGoal inserts or replaces a learning goal.
func (r *LearningPathRepo) SaveGoal(ctx context.Context, goal model.LearningGoal) error {
	const query = `
		INSERT OR REPLACE INTO learning_goals (
			id, user_id, title, description, priority, category,
			current_level, target_level, motivation, status, target_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		goal.ID, goal.UserID, goal.Title, goal.Description, goal.Priority,
		goal.Category, goal.CurrentLevel, goal.TargetLevel, goal.Motivation,
		goal.Status, goal.TargetDate, goal.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save learning goal %q: %w", goal.ID, err)
	}

	return nil
}

// ListGoalsByUser returns the user's learning goals, newest first.
func (r *LearningPathRepo) ListGoalsByUser(ctx context.Context, userID string) ([]model.LearningGoal, error) {
	const query = `
		SELECT id, user_id, title, description, priority, category,
		       current_level, target_level, motivation, status, target_date, created_at
		FROM learning_goals
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query learning goals: %w", err)
	}
	defer rows.Close()

	var goals []model.LearningGoal
	for rows.Next() {
		var goal model.LearningGoal
		var createdAt string

		err := rows.Scan(
			&goal.ID, &goal.UserID, &goal.Title, &goal.Description,
			&goal.Priority, &goal.Category, &goal.CurrentLevel,
			&goal.TargetLevel, &goal.Motivation, &goal.Status,
			&goal.TargetDate, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan learning goal: %w", err)
		}

		goal.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learning goals: %w", err)
	}

	return goals, nil
}

// SaveProgress inserts or replaces a progress entry.
func (r *LearningPathRepo) SaveProgress(ctx context.Context, entry model.ProgressEntry) error {
	const query = `
		INSERT OR REPLACE INTO learning_progress (
			id, user_id, path_id, module_id, time_spent_minutes,
			completed, notes, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	completed := 0
	if entry.Completed {
		completed = 1
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.PathID, entry.ModuleID,
		entry.TimeSpentMinutes, completed, entry.Notes, entry.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save progress entry %q: %w", entry.ID, err)
	}

	return nil
}

// ListProgressByUser returns the user's progress entries, most recently updated first.
func (r *LearningPathRepo) ListProgressByUser(ctx context.Context, userID string) ([]model.ProgressEntry, error) {
	const query = `
		SELECT id, user_id, path_id, module_id, time_spent_minutes,
		       completed, notes, updated_at
		FROM learning_progress
		WHERE user_id = ?
		ORDER BY updated_at DESC, id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query progress entries: %w", err)
	}
	defer rows.Close()

	var entries []model.ProgressEntry
	for rows.Next() {
		var entry model.ProgressEntry
		var completed int
		var updatedAt string

		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.PathID, &entry.ModuleID,
			&entry.TimeSpentMinutes, &completed, &entry.Notes, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan progress entry: %w", err)
		}

		entry.Completed = completed != 0

		entry.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress entries: %w", err)
	}

	return entries, nil
}
