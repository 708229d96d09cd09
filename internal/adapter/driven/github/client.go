// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Files fetched for every repository before analysis. Root-directory and
// workflow discovery extend this list per repository.
var keyFilePaths = []string{
	"README.md",
	"package.json",
	"requirements.txt",
	"Dockerfile",
	"docker-compose.yml",
	".github/workflows/ci.yml",
	".github/workflows/deploy.yml",
	".github/dependabot.yml",
	"Jenkinsfile",
	".gitlab-ci.yml",
	"main.tf",
	"terraform.tf",
	"k8s.yaml",
	"deployment.yaml",
	"CONTRIBUTING.md",
	"SECURITY.md",
	"CHANGELOG.md",
}

// Filename substrings that mark a root-directory file as analysis-relevant.
var keyFilePatterns = []string{
	"dockerfile", "docker-compose", "jenkinsfile", "makefile",
	"requirements", "package.json", "pom.xml", "build.gradle",
	"readme", "contributing", "security", "changelog", "license",
}

// File contents are truncated to this many bytes before analysis.
const maxFileContentBytes = 5000

// At most this many discovered workflow files are fetched per repository.
const maxWorkflowFiles = 3

// Client implements the driven.GitHubClient port using the go-github library.
// A Client is bound to a single access token.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with token auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchUserRepositories lists the authenticated user's repositories,
// newest-updated first. It handles pagination automatically and maps
// go-github types to domain model types.
func (c *Client) FetchUserRepositories(ctx context.Context) ([]model.Repository, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var allRepos []model.Repository

	for {
		repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories (page %d): %w", opts.Page, err)
		}

		logRateLimit(resp, "repositories", opts.Page, len(repos))

		for _, repo := range repos {
			allRepos = append(allRepos, mapRepository(repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allRepos == nil {
		allRepos = []model.Repository{}
	}

	return allRepos, nil
}

// FetchKeyFiles retrieves the DevOps-relevant file set for a repository. It
// starts from a fixed path list, extends it with matching root-directory
// files and up to three workflow files, then downloads each one. Missing
// files are skipped; contents are truncated to 5000 bytes.
func (c *Client) FetchKeyFiles(ctx context.Context, owner, repo string) (map[string]string, error) {
	paths := make([]string, len(keyFilePaths))
	copy(paths, keyFilePaths)
	paths = append(paths, c.discoverRootFiles(ctx, owner, repo)...)
	paths = append(paths, c.discoverWorkflows(ctx, owner, repo)...)

	files := make(map[string]string)
	for _, path := range paths {
		if _, ok := files[path]; ok {
			continue
		}

		content, err := c.fetchFileContent(ctx, owner, repo, path)
		if err != nil || content == "" {
			continue
		}
		files[path] = content
	}

	return files, nil
}

// FetchAuthenticatedUser returns the profile of the token's owner.
func (c *Client) FetchAuthenticatedUser(ctx context.Context) (*model.GitHubProfile, error) {
	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetching authenticated user: %w", err)
	}

	logRateLimit(resp, "user", 0, 1)

	return &model.GitHubProfile{
		ID:        user.GetID(),
		Username:  user.GetLogin(),
		Name:      user.GetName(),
		Email:     user.GetEmail(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

// discoverRootFiles lists the repository root and returns filenames matching
// the key file patterns. Failures are treated as an empty result.
func (c *Client) discoverRootFiles(ctx context.Context, owner, repo string) []string {
	_, entries, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, "", nil)
	if err != nil {
		return nil
	}

	var discovered []string
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		if isKeyFile(entry.GetName()) {
			discovered = append(discovered, entry.GetName())
		}
	}

	return discovered
}

// discoverWorkflows lists .github/workflows and returns up to three workflow
// file paths. Failures are treated as an empty result.
func (c *Client) discoverWorkflows(ctx context.Context, owner, repo string) []string {
	_, entries, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, ".github/workflows", nil)
	if err != nil {
		return nil
	}

	var discovered []string
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		discovered = append(discovered, ".github/workflows/"+entry.GetName())
		if len(discovered) == maxWorkflowFiles {
			break
		}
	}

	return discovered
}

func (c *Client) fetchFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	fileContent, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return "", err
	}
	if fileContent == nil {
		return "", nil
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	if len(content) > maxFileContentBytes {
		content = content[:maxFileContentBytes]
	}

	return content, nil
}

func isKeyFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, pattern := range keyFilePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func mapRepository(repo *gh.Repository) model.Repository {
	return model.Repository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		UpdatedAt:   repo.GetUpdatedAt().Time,
		Private:     repo.GetPrivate(),
	}
}

func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset", resp.Rate.Reset.Time,
		)
	}
}
