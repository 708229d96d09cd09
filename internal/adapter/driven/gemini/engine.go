// Package gemini implements the InsightEngine port using the Google
// generative-ai-go client.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.InsightEngine = (*Engine)(nil)

const modelName = "gemini-1.5-flash"

// Engine implements the driven.InsightEngine port. Responses are requested as
// JSON; the parser still tolerates surrounding prose or markdown fences.
type Engine struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewEngine creates an Engine bound to the given API key.
func NewEngine(ctx context.Context, apiKey string) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"

	return &Engine{client: client, model: m}, nil
}

// Close releases the underlying client connection.
func (e *Engine) Close() error {
	return e.client.Close()
}

// Analyze generates persona-tailored DevOps insights for one repository.
func (e *Engine) Analyze(ctx context.Context, repo model.Repository, files map[string]string, persona model.Persona) (*model.AIInsights, error) {
	prompt := buildPrompt(repo, files, persona)

	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate insights for %s: %w", repo.FullName, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response for %s", repo.FullName)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response part type for %s", repo.FullName)
	}

	return parseInsights(string(text), persona)
}

// engineResponse mirrors the JSON schema requested in the prompt.
type engineResponse struct {
	DevOpsScore     int                  `json:"devops_score"`
	Suggestions     []suggestionResponse `json:"suggestions"`
	AnalysisSummary string               `json:"analysis_summary"`
}

type suggestionResponse struct {
	Category            string   `json:"category"`
	Priority            string   `json:"priority"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	ImplementationSteps []string `json:"implementation_steps"`
	Resources           []string `json:"resources"`
	EstimatedEffort     string   `json:"estimated_effort"`
	BusinessImpact      string   `json:"business_impact"`
}

// parseInsights extracts the JSON object from a raw model response. The model
// is asked for bare JSON but sometimes wraps it in markdown fences, so the
// parser locates the outermost braces before unmarshaling.
func parseInsights(raw string, persona model.Persona) (*model.AIInsights, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %.200s", raw)
	}

	var parsed engineResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal insights: %w", err)
	}

	score := parsed.DevOpsScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	insights := &model.AIInsights{
		Persona:         persona,
		DevOpsScore:     score,
		AnalysisSummary: parsed.AnalysisSummary,
		GeneratedAt:     time.Now().UTC(),
	}

	for _, s := range parsed.Suggestions {
		insights.Suggestions = append(insights.Suggestions, model.Suggestion{
			Category:            s.Category,
			Priority:            s.Priority,
			Title:               s.Title,
			Description:         s.Description,
			ImplementationSteps: s.ImplementationSteps,
			Resources:           s.Resources,
			EstimatedEffort:     s.EstimatedEffort,
			BusinessImpact:      s.BusinessImpact,
		})
	}

	if insights.AnalysisSummary == "" {
		insights.AnalysisSummary = fmt.Sprintf(
			"DevOps Maturity: %s (%d/100). %d suggestions generated.",
			model.MaturityLevel(score), score, len(insights.Suggestions),
		)
	}

	return insights, nil
}

// personaFocus tailors the prompt's emphasis per persona.
var personaFocus = map[model.Persona]struct {
	focus      string
	tone       string
	priorities string
}{
	model.PersonaStudent: {
		focus:      "learning opportunities, skill building, best practices",
		tone:       "educational, encouraging, step-by-step guidance",
		priorities: "learning resources, hands-on practice, career development",
	},
	model.PersonaProfessional: {
		focus:      "optimization, efficiency, technical improvements",
		tone:       "technical, actionable, performance-oriented",
		priorities: "code quality, automation, team productivity",
	},
	model.PersonaManager: {
		focus:      "team metrics, culture, strategic improvements",
		tone:       "strategic, business-focused, leadership-oriented",
		priorities: "team performance, risk management, ROI",
	},
}

func buildPrompt(repo model.Repository, files map[string]string, persona model.Persona) string {
	focus, ok := personaFocus[persona]
	if !ok {
		focus = personaFocus[model.PersonaProfessional]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a DevOps culture analyst reviewing a GitHub repository for a %s.\n\n", persona)
	fmt.Fprintf(&b, "REPOSITORY:\n- Name: %s\n- Language: %s\n- Description: %s\n- Stars: %d\n- Private: %t\n\n",
		repo.FullName, orUnknown(repo.Language), orUnknown(repo.Description), repo.Stars, repo.Private)

	b.WriteString("DETECTED PATTERNS:\n")
	for _, p := range detectPatterns(files) {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	fmt.Fprintf(&b, "\nPERSONA FOCUS:\n- Focus areas: %s\n- Tone: %s\n- Priorities: %s\n\n",
		focus.focus, focus.tone, focus.priorities)

	b.WriteString(`Return ONLY a JSON object with this structure:
{
  "devops_score": 0-100,
  "suggestions": [
    {
      "category": "CI/CD" | "Security" | "Testing" | "Documentation" | "Monitoring",
      "priority": "Critical" | "High" | "Medium" | "Low",
      "title": "Clear, actionable title",
      "description": "Explanation of the issue and its impact",
      "implementation_steps": ["Step 1", "Step 2"],
      "resources": ["Relevant documentation or tools"],
      "estimated_effort": "1 hour" | "1 day" | "1 week",
      "business_impact": "Why this matters for the persona"
    }
  ],
  "analysis_summary": "One-paragraph maturity assessment"
}
`)

	return b.String()
}

// detectPatterns summarizes tooling signals from the fetched file set so the
// model grounds its suggestions in what the repository actually has.
func detectPatterns(files map[string]string) []string {
	present := func(label string, found bool) string {
		if found {
			return label + ": present"
		}
		return label + ": missing"
	}

	hasWorkflows := false
	hasTests := false
	hasCompose := false
	for path := range files {
		lower := strings.ToLower(path)
		if strings.HasPrefix(path, ".github/workflows/") {
			hasWorkflows = true
		}
		if strings.Contains(lower, "test") {
			hasTests = true
		}
		if strings.Contains(lower, "docker-compose") {
			hasCompose = true
		}
	}

	_, hasDockerfile := files["Dockerfile"]
	_, hasJenkins := files["Jenkinsfile"]
	_, hasGitlab := files[".gitlab-ci.yml"]
	_, hasSecurity := files["SECURITY.md"]
	_, hasDependabot := files[".github/dependabot.yml"]
	_, hasReadme := files["README.md"]

	return []string{
		present("GitHub Actions workflows", hasWorkflows),
		present("Containerization", hasDockerfile || hasCompose),
		present("Jenkins pipeline", hasJenkins),
		present("GitLab CI", hasGitlab),
		present("Automated tests", hasTests),
		present("Security policy", hasSecurity),
		present("Dependency updates", hasDependabot),
		present("README", hasReadme),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
