package application_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianhq/meridian/internal/application"
)

func TestAnalyzeDevOpsPatterns_EmptyRepo(t *testing.T) {
	analysis := application.AnalyzeDevOpsPatterns(map[string]string{})

	assert.Zero(t, analysis.CICDScore)
	assert.Zero(t, analysis.SecurityScore)
	assert.Empty(t, analysis.DetectedTools)
	assert.ElementsMatch(t, []string{
		"CI/CD Pipeline",
		"Documentation",
		"Automated Testing",
		"Security Policy",
	}, analysis.MissingEssentials)
}

func TestAnalyzeDevOpsPatterns_FullyTooled(t *testing.T) {
	files := map[string]string{
		".github/workflows/ci.yml":   "on: push",
		"Jenkinsfile":                "pipeline {}",
		"Dockerfile":                 "FROM scratch",
		"SECURITY.md":                "report here",
		".github/dependabot.yml":     "version: 2",
		"internal/thing/thing_test.go": "package thing",
		"README.md":                  strings.Repeat("x", 600),
		"CONTRIBUTING.md":            "please do",
		"CHANGELOG.md":               "v1.0.0",
	}

	analysis := application.AnalyzeDevOpsPatterns(files)

	assert.Equal(t, 70, analysis.CICDScore)
	assert.Equal(t, 70, analysis.SecurityScore)
	assert.Equal(t, 90, analysis.DocumentationScore)
	assert.Equal(t, 30, analysis.AutomationScore)
	assert.Contains(t, analysis.DetectedTools, "GitHub Actions")
	assert.Contains(t, analysis.DetectedTools, "Jenkins")
	assert.Contains(t, analysis.DetectedTools, "Docker")
	assert.Contains(t, analysis.DetectedTools, "Dependabot")
	assert.Empty(t, analysis.MissingEssentials)
}

func TestAnalyzeDevOpsPatterns_ShortReadme(t *testing.T) {
	analysis := application.AnalyzeDevOpsPatterns(map[string]string{
		"README.md": "tiny",
	})

	assert.Equal(t, 20, analysis.DocumentationScore)
	assert.NotContains(t, analysis.MissingEssentials, "Documentation")
}

func TestMaturityScore(t *testing.T) {
	t.Run("empty repo scores 0", func(t *testing.T) {
		assert.Equal(t, 0, application.MaturityScore(map[string]string{}))
	})

	t.Run("workflows outrank dockerfile", func(t *testing.T) {
		// "dockerfile" also matches the "doc" documentation substring
		// check, worth 5 points in both cases.
		withWorkflow := application.MaturityScore(map[string]string{
			".github/workflows/ci.yml": "on: push",
			"Dockerfile":               "FROM scratch",
		})
		dockerOnly := application.MaturityScore(map[string]string{
			"Dockerfile": "FROM scratch",
		})
		assert.Equal(t, 35, withWorkflow)
		assert.Equal(t, 20, dockerOnly)
	})

	t.Run("fully tooled repo is capped at 100", func(t *testing.T) {
		score := application.MaturityScore(map[string]string{
			".github/workflows/ci.yml": "on: push",
			"pkg/pkg_test.go":          "package pkg",
			"README.md":                "readme",
			"CONTRIBUTING.md":          "contribute",
			"docs/guide.md":            "guide",
			"SECURITY.md":              "policy",
			"main.tf":                  "resource {}",
		})
		assert.LessOrEqual(t, score, 100)
		assert.Equal(t, 100, score)
	})
}
