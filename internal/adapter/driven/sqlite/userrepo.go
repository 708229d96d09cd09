package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user. Skills are serialized as a JSON array in the
// TEXT column. Returns driven.ErrEmailTaken on a duplicate email.
func (r *UserRepo) Create(ctx context.Context, user model.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, role, skills, github_id, github_username,
			avatar_url, github_token, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, string(user.Role), string(skillsJSON),
		user.GitHubID, user.GitHubUsername, user.AvatarURL, user.GitHubToken,
		user.CreatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return driven.ErrEmailTaken
		}
		return fmt.Errorf("create user %q: %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by ID. Returns driven.ErrUserNotFound when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = userSelect + ` WHERE id = ?`
	return r.getUser(ctx, query, id)
}

// GetByEmail retrieves a user by email. Returns driven.ErrUserNotFound when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = userSelect + ` WHERE email = ?`
	return r.getUser(ctx, query, email)
}

// GetByGitHubID retrieves a user by their linked GitHub account ID.
// Returns driven.ErrUserNotFound when no row matches.
func (r *UserRepo) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	const query = userSelect + ` WHERE github_id = ? AND github_id != 0`
	return r.getUser(ctx, query, githubID)
}

// UpdateRole changes a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	const query = `UPDATE users SET role = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, string(role), id)
	if err != nil {
		return fmt.Errorf("update role for user %q: %w", id, err)
	}

	return requireRow(result, driven.ErrUserNotFound)
}

// UpdateSkills replaces a user's skill list.
func (r *UserRepo) UpdateSkills(ctx context.Context, id string, skills []string) error {
	const query = `UPDATE users SET skills = ? WHERE id = ?`

	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	result, err := r.db.Writer.ExecContext(ctx, query, string(skillsJSON), id)
	if err != nil {
		return fmt.Errorf("update skills for user %q: %w", id, err)
	}

	return requireRow(result, driven.ErrUserNotFound)
}

// UpdateGitHubData refreshes the GitHub link fields after an OAuth sign-in.
func (r *UserRepo) UpdateGitHubData(ctx context.Context, id string, profile model.GitHubProfile) error {
	const query = `
		UPDATE users
		SET github_id = ?, github_username = ?, avatar_url = ?, github_token = ?
		WHERE id = ?
	`

	result, err := r.db.Writer.ExecContext(ctx, query,
		profile.ID, profile.Username, profile.AvatarURL, profile.AccessToken, id,
	)
	if err != nil {
		return fmt.Errorf("update github data for user %q: %w", id, err)
	}

	return requireRow(result, driven.ErrUserNotFound)
}

const userSelect = `
	SELECT id, name, email, role, skills, github_id, github_username,
	       avatar_url, github_token, created_at
	FROM users
`

func (r *UserRepo) getUser(ctx context.Context, query string, args ...any) (*model.User, error) {
	user, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func scanUser(s scanner) (*model.User, error) {
	var user model.User
	var role string
	var skillsJSON string
	var createdAt string

	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &role, &skillsJSON,
		&user.GitHubID, &user.GitHubUsername, &user.AvatarURL,
		&user.GitHubToken, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = model.Role(role)

	if err := json.Unmarshal([]byte(skillsJSON), &user.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}

	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &user, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// requireRow maps a zero-row update to the given sentinel error.
func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
