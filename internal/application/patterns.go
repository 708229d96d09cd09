package application

import (
	"strings"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// AnalyzeDevOpsPatterns scans fetched repository files for DevOps tooling
// signals and returns per-category point totals plus the detected tools and
// missing essentials lists. Keys are repository-relative paths; values are
// (truncated) file contents.
func AnalyzeDevOpsPatterns(files map[string]string) model.PatternAnalysis {
	a := model.PatternAnalysis{
		DetectedTools:     []string{},
		MissingEssentials: []string{},
	}

	hasWorkflow := anyKey(files, func(name string) bool { return strings.Contains(name, "workflow") })
	_, hasJenkinsfile := files["Jenkinsfile"]
	_, hasGitLabCI := files[".gitlab-ci.yml"]
	_, hasDockerfile := files["Dockerfile"]
	_, hasSecurityPolicy := files["SECURITY.md"]
	hasDependabot := anyKey(files, func(name string) bool { return strings.Contains(strings.ToLower(name), "dependabot") })
	hasTests := anyKey(files, func(name string) bool { return strings.Contains(strings.ToLower(name), "test") })

	if hasWorkflow {
		a.CICDScore += 40
		a.DetectedTools = append(a.DetectedTools, "GitHub Actions")
	}
	if hasJenkinsfile {
		a.CICDScore += 30
		a.DetectedTools = append(a.DetectedTools, "Jenkins")
	}
	if hasGitLabCI {
		a.CICDScore += 30
		a.DetectedTools = append(a.DetectedTools, "GitLab CI")
	}
	if hasDockerfile {
		a.AutomationScore += 30
		a.DetectedTools = append(a.DetectedTools, "Docker")
	}

	if hasSecurityPolicy {
		a.SecurityScore += 25
	}
	if hasDependabot {
		a.SecurityScore += 25
		a.DetectedTools = append(a.DetectedTools, "Dependabot")
	}
	if hasTests {
		a.SecurityScore += 20
	}

	if readme, ok := files["README.md"]; ok {
		if len(readme) > 500 {
			a.DocumentationScore += 40
		} else {
			a.DocumentationScore += 20
		}
	}
	if _, ok := files["CONTRIBUTING.md"]; ok {
		a.DocumentationScore += 30
	}
	if _, ok := files["CHANGELOG.md"]; ok {
		a.DocumentationScore += 20
	}

	if !hasWorkflow && !hasJenkinsfile && !hasGitLabCI {
		a.MissingEssentials = append(a.MissingEssentials, "CI/CD Pipeline")
	}
	if _, ok := files["README.md"]; !ok {
		a.MissingEssentials = append(a.MissingEssentials, "Documentation")
	}
	if !hasTests {
		a.MissingEssentials = append(a.MissingEssentials, "Automated Testing")
	}
	if !hasSecurityPolicy {
		a.MissingEssentials = append(a.MissingEssentials, "Security Policy")
	}

	return a
}

// MaturityScore computes the single 0-100 DevOps maturity score from fetched
// repository files: CI/CD up to 30, tests 25, documentation up to 20, security
// policy 15, infrastructure-as-code 10.
func MaturityScore(files map[string]string) int {
	score := 0

	if anyKey(files, func(name string) bool { return strings.Contains(strings.ToLower(name), "workflow") }) {
		score += 30
	} else if _, ok := files["Dockerfile"]; ok {
		score += 15
	}

	if anyKey(files, func(name string) bool { return strings.Contains(strings.ToLower(name), "test") }) {
		score += 25
	}

	if _, ok := files["README.md"]; ok {
		score += 10
	}
	if _, ok := files["CONTRIBUTING.md"]; ok {
		score += 5
	}
	if anyKey(files, func(name string) bool { return strings.Contains(strings.ToLower(name), "doc") }) {
		score += 5
	}

	if anyKey(files, func(name string) bool { return strings.Contains(strings.ToLower(name), "security") }) {
		score += 15
	}

	if anyKey(files, func(name string) bool {
		lower := strings.ToLower(name)
		return strings.HasSuffix(lower, ".tf") || strings.Contains(lower, "terraform")
	}) {
		score += 10
	}

	return clampScore(score)
}

func anyKey(files map[string]string, match func(string) bool) bool {
	for name := range files {
		if match(name) {
			return true
		}
	}
	return false
}
