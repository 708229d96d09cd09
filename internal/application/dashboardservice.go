package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// ErrNoGitHubToken indicates neither the user nor the service configuration
// carries a GitHub access token.
var ErrNoGitHubToken = errors.New("no github token available")

// DashboardService fetches a user's repositories and derives dashboard
// metrics. Repository data is fetched fresh on every call; the transport-level
// conditional cache is the only caching layer.
type DashboardService struct {
	factory      driven.GitHubClientFactory
	serviceToken string
}

// NewDashboardService creates a DashboardService. serviceToken is the optional
// shared fallback token used for users without a linked GitHub account.
func NewDashboardService(factory driven.GitHubClientFactory, serviceToken string) *DashboardService {
	return &DashboardService{
		factory:      factory,
		serviceToken: serviceToken,
	}
}

// clientFor resolves the GitHub client for a user: their own token first, the
// service token otherwise.
func (s *DashboardService) clientFor(user *model.User) (driven.GitHubClient, error) {
	token := s.serviceToken
	if user != nil && user.GitHubToken != "" {
		token = user.GitHubToken
	}
	if token == "" {
		return nil, ErrNoGitHubToken
	}
	return s.factory(token), nil
}

// Repositories lists the user's repositories from the provider.
func (s *DashboardService) Repositories(ctx context.Context, user *model.User) ([]model.Repository, error) {
	client, err := s.clientFor(user)
	if err != nil {
		return nil, err
	}

	repos, err := client.FetchUserRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch repositories: %w", err)
	}
	return repos, nil
}

// Metrics fetches the user's repositories and aggregates them into the
// composite DevOps score object.
func (s *DashboardService) Metrics(ctx context.Context, user *model.User) (model.DevOpsMetrics, []model.Repository, error) {
	repos, err := s.Repositories(ctx, user)
	if err != nil {
		return model.DevOpsMetrics{}, nil, err
	}
	return ComputeDevOpsMetrics(repos), repos, nil
}

// KeyFiles fetches the DevOps-relevant files of one repository on behalf of
// the user.
func (s *DashboardService) KeyFiles(ctx context.Context, user *model.User, owner, repo string) (map[string]string, error) {
	client, err := s.clientFor(user)
	if err != nil {
		return nil, err
	}

	files, err := client.FetchKeyFiles(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetch key files for %s/%s: %w", owner, repo, err)
	}
	return files, nil
}
