package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/meridianhq/meridian/internal/adapter/driven/github"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)

	return client
}

// repoJSON is a helper struct for building GitHub API repository responses.
type repoJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stargazers  int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	Private     bool   `json:"private"`
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchUserRepositories_SinglePage(t *testing.T) {
	repos := []repoJSON{
		{
			ID:          1,
			Name:        "api",
			FullName:    "octocat/api",
			Description: "A REST API with good documentation",
			Language:    "Go",
			Stargazers:  12,
			Forks:       3,
			UpdatedAt:   "2026-07-01T00:00:00Z",
		},
		{
			ID:       2,
			Name:     "secret-sauce",
			FullName: "octocat/secret-sauce",
			Language: "Python",
			Private:  true,
		},
	}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		writeJSON(t, w, repos)
	}))

	got, err := client.FetchUserRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "octocat/api", got[0].FullName)
	assert.Equal(t, "Go", got[0].Language)
	assert.Equal(t, 12, got[0].Stars)
	assert.False(t, got[0].Private)
	assert.True(t, got[1].Private)
}

func TestFetchUserRepositories_Pagination(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host + "/user/repos"
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, []repoJSON{{ID: 2, FullName: "octocat/two"}})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next", <%s?page=2>; rel="last"`, base, base))
		writeJSON(t, w, []repoJSON{{ID: 1, FullName: "octocat/one"}})
	}))

	got, err := client.FetchUserRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "octocat/one", got[0].FullName)
	assert.Equal(t, "octocat/two", got[1].FullName)
}

func TestFetchUserRepositories_Empty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []repoJSON{})
	}))

	got, err := client.FetchUserRepositories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchAuthenticatedUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"id":         int64(42),
			"login":      "octocat",
			"name":       "Octo Cat",
			"email":      "octo@example.com",
			"avatar_url": "https://example.com/a.png",
		})
	}))

	profile, err := client.FetchAuthenticatedUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "octocat", profile.Username)
	assert.Equal(t, "Octo Cat", profile.Name)
	assert.Equal(t, "https://example.com/a.png", profile.AvatarURL)
}

func fileJSON(name, path, content string) map[string]any {
	return map[string]any{
		"type":     "file",
		"name":     name,
		"path":     path,
		"encoding": "base64",
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
	}
}

func TestFetchKeyFiles(t *testing.T) {
	readme := strings.Repeat("r", 6000)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octocat/api/contents/":
			// Root listing: Makefile is discovered via the key file patterns.
			writeJSON(t, w, []map[string]any{
				{"type": "file", "name": "README.md"},
				{"type": "file", "name": "Makefile"},
				{"type": "file", "name": "main.go"},
				{"type": "dir", "name": "docs"},
			})
		case "/repos/octocat/api/contents/.github/workflows":
			writeJSON(t, w, []map[string]any{
				{"type": "file", "name": "release.yml"},
			})
		case "/repos/octocat/api/contents/README.md":
			writeJSON(t, w, fileJSON("README.md", "README.md", readme))
		case "/repos/octocat/api/contents/Makefile":
			writeJSON(t, w, fileJSON("Makefile", "Makefile", "build:\n\tgo build ./..."))
		case "/repos/octocat/api/contents/.github/workflows/release.yml":
			writeJSON(t, w, fileJSON("release.yml", ".github/workflows/release.yml", "on: push"))
		default:
			http.NotFound(w, r)
		}
	}))

	files, err := client.FetchKeyFiles(context.Background(), "octocat", "api")
	require.NoError(t, err)

	assert.Len(t, files, 3)
	assert.Contains(t, files, "Makefile")
	assert.Equal(t, "on: push", files[".github/workflows/release.yml"])

	// Contents are truncated to 5000 bytes.
	assert.Len(t, files["README.md"], 5000)
}

func TestFetchKeyFiles_AllMissing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	files, err := client.FetchKeyFiles(context.Background(), "octocat", "empty")
	require.NoError(t, err)
	assert.Empty(t, files)
}
