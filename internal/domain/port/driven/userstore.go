package driven

import (
	"context"
	"errors"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// Sentinel errors returned by UserStore implementations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a user with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// UserStore defines the driven port for user account persistence.
// Create returns ErrEmailTaken when the email is already registered.
// Lookup methods return ErrUserNotFound when no row matches.
type UserStore interface {
	Create(ctx context.Context, user model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role model.Role) error
	UpdateSkills(ctx context.Context, id string, skills []string) error
	UpdateGitHubData(ctx context.Context, id string, profile model.GitHubProfile) error
}
