package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProjectStore = (*ProjectRepo)(nil)

// ProjectRepo is the SQLite implementation of the ProjectStore port interface.
type ProjectRepo struct {
	db *DB
}

// NewProjectRepo creates a new ProjectRepo backed by the given DB.
func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create persists the project and its member assignments in one transaction.
func (r *ProjectRepo) Create(ctx context.Context, project model.Project, assignments []model.Assignment) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create project: %w", err)
	}
	defer tx.Rollback()

	const projectQuery = `
		INSERT INTO projects (id, name, description, manager_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, projectQuery,
		project.ID, project.Name, project.Description, project.ManagerID,
		project.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert project %q: %w", project.Name, err)
	}

	const assignmentQuery = `
		INSERT INTO assignments (id, project_id, user_id, role, assigned_at)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, a := range assignments {
		_, err = tx.ExecContext(ctx, assignmentQuery,
			a.ID, a.ProjectID, a.UserID, a.Role, a.AssignedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert assignment for user %q: %w", a.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project with its member count.
// Returns driven.ErrProjectNotFound when no row matches.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	const query = projectSelect + ` WHERE p.id = ?`

	project, err := scanProject(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %q: %w", id, err)
	}

	return project, nil
}

// ListByManager returns a manager's projects, newest first, each with its
// member count.
func (r *ProjectRepo) ListByManager(ctx context.Context, managerID string) ([]model.Project, error) {
	const query = projectSelect + ` WHERE p.manager_id = ? ORDER BY p.created_at DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

// Team returns the project's assignments joined with each member's account data.
func (r *ProjectRepo) Team(ctx context.Context, projectID string) ([]model.TeamMember, error) {
	const query = `
		SELECT a.id, a.project_id, a.user_id, a.role, a.assigned_at,
		       u.name, u.email
		FROM assignments a
		JOIN users u ON u.id = a.user_id
		WHERE a.project_id = ?
		ORDER BY a.assigned_at
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("query team: %w", err)
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		var assignedAt string

		err := rows.Scan(
			&m.ID, &m.ProjectID, &m.UserID, &m.Role, &assignedAt,
			&m.Name, &m.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}

		m.AssignedAt, err = parseTime(assignedAt)
		if err != nil {
			return nil, fmt.Errorf("parse assigned_at: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team: %w", err)
	}

	return members, nil
}

// Remove deletes a project; its assignments go with it by foreign key cascade.
// Returns driven.ErrProjectNotFound if the project does not exist.
func (r *ProjectRepo) Remove(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project %q: %w", id, err)
	}

	return requireRow(result, driven.ErrProjectNotFound)
}

const projectSelect = `
	SELECT p.id, p.name, p.description, p.manager_id, p.created_at,
	       (SELECT COUNT(*) FROM assignments a WHERE a.project_id = p.id)
	FROM projects p
`

func scanProject(s scanner) (*model.Project, error) {
	var project model.Project
	var createdAt string

	err := s.Scan(
		&project.ID, &project.Name, &project.Description, &project.ManagerID,
		&createdAt, &project.MemberCount,
	)
	if err != nil {
		return nil, err
	}

	project.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &project, nil
}
