package driven

import (
	"context"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// GitHubClient defines the driven port for the repository provider. A client
// is bound to one access token; use a GitHubClientFactory to build clients
// for per-user tokens.
type GitHubClient interface {
	// FetchUserRepositories lists the authenticated user's repositories,
	// newest-updated first, mapped to domain records.
	FetchUserRepositories(ctx context.Context) ([]model.Repository, error)

	// FetchKeyFiles retrieves the DevOps-relevant file set for a repository
	// (README, CI configs, Dockerfile, security policy, ...). File contents
	// are truncated to 5000 bytes. Missing files are skipped, not errors.
	FetchKeyFiles(ctx context.Context, owner, repo string) (map[string]string, error)

	// FetchAuthenticatedUser returns the profile of the token's owner.
	FetchAuthenticatedUser(ctx context.Context) (*model.GitHubProfile, error)
}

// GitHubClientFactory builds a GitHubClient for a specific access token.
type GitHubClientFactory func(token string) GitHubClient
