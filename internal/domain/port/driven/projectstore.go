package driven

import (
	"context"
	"errors"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// ErrProjectNotFound indicates the requested project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// ProjectStore defines the driven port for project and assignment persistence.
// Create persists the project and its member assignments atomically.
// Remove returns ErrProjectNotFound if the project does not exist; assignments
// are removed by foreign key cascade.
type ProjectStore interface {
	Create(ctx context.Context, project model.Project, assignments []model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	ListByManager(ctx context.Context, managerID string) ([]model.Project, error)
	Team(ctx context.Context, projectID string) ([]model.TeamMember, error)
	Remove(ctx context.Context, id string) error
}
