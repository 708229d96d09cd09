package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// UserResponse is the JSON representation of a user account. The GitHub
// access token never leaves the service.
type UserResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	Skills         []string `json:"skills"`
	GitHubUsername string   `json:"github_username,omitempty"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// AuthResponse is the JSON body returned by signup and the login endpoints.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// RepositoryResponse is the JSON representation of a fetched repository.
type RepositoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	UpdatedAt   string `json:"updated_at"`
	Private     bool   `json:"private"`
}

// MetricsResponse is the JSON representation of the aggregated dashboard metrics.
type MetricsResponse struct {
	OverallScore         int `json:"overall_score"`
	CICDScore            int `json:"ci_cd_score"`
	SecurityScore        int `json:"security_score"`
	DocumentationScore   int `json:"documentation_score"`
	AutomationScore      int `json:"automation_score"`
	RepositoriesAnalyzed int `json:"repositories_analyzed"`
	TotalRepositories    int `json:"total_repositories"`
}

// SuggestionResponse is the JSON representation of one insight suggestion.
type SuggestionResponse struct {
	Category            string   `json:"category"`
	Priority            string   `json:"priority"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	ImplementationSteps []string `json:"implementation_steps"`
	Resources           []string `json:"resources"`
	EstimatedEffort     string   `json:"estimated_effort,omitempty"`
	BusinessImpact      string   `json:"business_impact,omitempty"`
}

// PatternAnalysisResponse is the JSON representation of the file-based DevOps
// pattern scan that accompanies an insight run.
type PatternAnalysisResponse struct {
	CICDScore          int      `json:"ci_cd_score"`
	SecurityScore      int      `json:"security_score"`
	DocumentationScore int      `json:"documentation_score"`
	AutomationScore    int      `json:"automation_score"`
	MaturityScore      int      `json:"maturity_score"`
	DetectedTools      []string `json:"detected_tools"`
	MissingEssentials  []string `json:"missing_essentials"`
}

// InsightsResponse is the JSON representation of a repository insight run.
type InsightsResponse struct {
	Persona         string                  `json:"persona"`
	DevOpsScore     int                     `json:"devops_score"`
	MaturityLevel   string                  `json:"maturity_level"`
	Suggestions     []SuggestionResponse    `json:"suggestions"`
	AnalysisSummary string                  `json:"analysis_summary"`
	Patterns        PatternAnalysisResponse `json:"patterns"`
	GeneratedAt     string                  `json:"generated_at"`
}

// ProjectResponse is the JSON representation of a project.
type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at"`
}

// TeamMemberResponse is the JSON representation of a project team member.
type TeamMemberResponse struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	AssignedAt string `json:"assigned_at"`
}

// LearningModuleResponse is the JSON representation of one path module.
type LearningModuleResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	EstimatedHours int    `json:"estimated_hours"`
	OrderIndex     int    `json:"order_index"`
}

// LearningPathResponse is the JSON representation of a learning path.
type LearningPathResponse struct {
	ID             string                   `json:"id"`
	UserID         string                   `json:"user_id"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Category       string                   `json:"category"`
	Difficulty     string                   `json:"difficulty"`
	EstimatedHours int                      `json:"estimated_hours"`
	Tags           []string                 `json:"tags"`
	Modules        []LearningModuleResponse `json:"modules"`
	CreatedAt      string                   `json:"created_at"`
}

// LearningGoalResponse is the JSON representation of a learning goal.
type LearningGoalResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	Category     string `json:"category"`
	CurrentLevel string `json:"current_level"`
	TargetLevel  string `json:"target_level"`
	Motivation   string `json:"motivation"`
	Status       string `json:"status"`
	TargetDate   string `json:"target_date"`
	CreatedAt    string `json:"created_at"`
}

// ProgressResponse is the JSON representation of a recorded progress entry.
type ProgressResponse struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	PathID           string `json:"path_id"`
	ModuleID         string `json:"module_id"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
	Completed        bool   `json:"completed"`
	Notes            string `json:"notes"`
	UpdatedAt        string `json:"updated_at"`
}

// PracticeScoreResponse is one answer within an assessment.
type PracticeScoreResponse struct {
	Practice string `json:"practice"`
	Score    int    `json:"score"`
}

// AssessmentResponse is the JSON representation of a culture assessment.
type AssessmentResponse struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"user_id"`
	Responses     []PracticeScoreResponse `json:"responses"`
	OverallScore  int                     `json:"overall_score"`
	MaturityLevel string                  `json:"maturity_level"`
	CreatedAt     string                  `json:"created_at"`
}

// TrendResponse summarizes the direction of an assessment history.
type TrendResponse struct {
	Direction string `json:"direction"`
	Delta     int    `json:"delta"`
}

// AssessmentHistoryResponse is the JSON body of the assessment history endpoint.
type AssessmentHistoryResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Trend       TrendResponse        `json:"trend"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// SignupRequest is the JSON body for the signup endpoint.
type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginRequest is the JSON body for the email login endpoint.
type LoginRequest struct {
	Email string `json:"email"`
}

// GitHubLoginRequest is the JSON body for the GitHub OAuth login endpoint.
type GitHubLoginRequest struct {
	Code string `json:"code"`
	Role string `json:"role"`
}

// RoleRequest is the JSON body for the role update endpoint.
type RoleRequest struct {
	Role string `json:"role"`
}

// SkillsRequest is the JSON body for the skills update endpoint.
type SkillsRequest struct {
	Skills []string `json:"skills"`
}

// CreateProjectRequest is the JSON body for the create project endpoint.
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ManagerID   string   `json:"manager_id"`
	MemberIDs   []string `json:"member_ids"`
}

// CreateGoalRequest is the JSON body for the create goal endpoint.
type CreateGoalRequest struct {
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	Category     string `json:"category"`
	CurrentLevel string `json:"current_level"`
	TargetLevel  string `json:"target_level"`
	Motivation   string `json:"motivation"`
	TargetDate   string `json:"target_date"`
}

// RecordProgressRequest is the JSON body for the record progress endpoint.
type RecordProgressRequest struct {
	UserID           string `json:"user_id"`
	PathID           string `json:"path_id"`
	ModuleID         string `json:"module_id"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
	Completed        bool   `json:"completed"`
	Notes            string `json:"notes"`
}

// SubmitAssessmentRequest is the JSON body for the assessment submission endpoint.
type SubmitAssessmentRequest struct {
	UserID    string                  `json:"user_id"`
	Responses []PracticeScoreResponse `json:"responses"`
}

// InsightRequest is the JSON body for the repository insight endpoint.
type InsightRequest struct {
	Persona string `json:"persona"`
}

func toUserResponse(user model.User) UserResponse {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}

	return UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           string(user.Role),
		Skills:         skills,
		GitHubUsername: user.GitHubUsername,
		AvatarURL:      user.AvatarURL,
		CreatedAt:      user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toRepositoryResponse(repo model.Repository) RepositoryResponse {
	return RepositoryResponse{
		ID:          repo.ID,
		Name:        repo.Name,
		FullName:    repo.FullName,
		Description: repo.Description,
		Language:    repo.Language,
		Stars:       repo.Stars,
		Forks:       repo.Forks,
		UpdatedAt:   repo.UpdatedAt.UTC().Format(time.RFC3339),
		Private:     repo.Private,
	}
}

func toMetricsResponse(m model.DevOpsMetrics) MetricsResponse {
	return MetricsResponse{
		OverallScore:         m.OverallScore,
		CICDScore:            m.CICDScore,
		SecurityScore:        m.SecurityScore,
		DocumentationScore:   m.DocumentationScore,
		AutomationScore:      m.AutomationScore,
		RepositoriesAnalyzed: m.RepositoriesAnalyzed,
		TotalRepositories:    m.TotalRepositories,
	}
}

func toInsightsResponse(insights model.AIInsights) InsightsResponse {
	suggestions := make([]SuggestionResponse, 0, len(insights.Suggestions))
	for _, s := range insights.Suggestions {
		steps := s.ImplementationSteps
		if steps == nil {
			steps = []string{}
		}
		resources := s.Resources
		if resources == nil {
			resources = []string{}
		}
		suggestions = append(suggestions, SuggestionResponse{
			Category:            s.Category,
			Priority:            s.Priority,
			Title:               s.Title,
			Description:         s.Description,
			ImplementationSteps: steps,
			Resources:           resources,
			EstimatedEffort:     s.EstimatedEffort,
			BusinessImpact:      s.BusinessImpact,
		})
	}

	return InsightsResponse{
		Persona:         string(insights.Persona),
		DevOpsScore:     insights.DevOpsScore,
		MaturityLevel:   model.MaturityLevel(insights.DevOpsScore),
		Suggestions:     suggestions,
		AnalysisSummary: insights.AnalysisSummary,
		GeneratedAt:     insights.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func toPatternAnalysisResponse(patterns model.PatternAnalysis, maturityScore int) PatternAnalysisResponse {
	tools := patterns.DetectedTools
	if tools == nil {
		tools = []string{}
	}
	missing := patterns.MissingEssentials
	if missing == nil {
		missing = []string{}
	}

	return PatternAnalysisResponse{
		CICDScore:          patterns.CICDScore,
		SecurityScore:      patterns.SecurityScore,
		DocumentationScore: patterns.DocumentationScore,
		AutomationScore:    patterns.AutomationScore,
		MaturityScore:      maturityScore,
		DetectedTools:      tools,
		MissingEssentials:  missing,
	}
}

func toProjectResponse(project model.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		ManagerID:   project.ManagerID,
		MemberCount: project.MemberCount,
		CreatedAt:   project.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTeamMemberResponse(member model.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		UserID:     member.UserID,
		Name:       member.Name,
		Email:      member.Email,
		Role:       member.Role,
		AssignedAt: member.AssignedAt.UTC().Format(time.RFC3339),
	}
}

func toLearningPathResponse(path model.LearningPath) LearningPathResponse {
	tags := path.Tags
	if tags == nil {
		tags = []string{}
	}

	modules := make([]LearningModuleResponse, 0, len(path.Modules))
	for _, m := range path.Modules {
		modules = append(modules, LearningModuleResponse{
			ID:             m.ID,
			Title:          m.Title,
			Description:    m.Description,
			EstimatedHours: m.EstimatedHours,
			OrderIndex:     m.OrderIndex,
		})
	}

	return LearningPathResponse{
		ID:             path.ID,
		UserID:         path.UserID,
		Title:          path.Title,
		Description:    path.Description,
		Category:       path.Category,
		Difficulty:     path.Difficulty,
		EstimatedHours: path.EstimatedHours,
		Tags:           tags,
		Modules:        modules,
		CreatedAt:      path.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toLearningGoalResponse(goal model.LearningGoal) LearningGoalResponse {
	return LearningGoalResponse{
		ID:           goal.ID,
		UserID:       goal.UserID,
		Title:        goal.Title,
		Description:  goal.Description,
		Priority:     goal.Priority,
		Category:     goal.Category,
		CurrentLevel: goal.CurrentLevel,
		TargetLevel:  goal.TargetLevel,
		Motivation:   goal.Motivation,
		Status:       goal.Status,
		TargetDate:   goal.TargetDate,
		CreatedAt:    goal.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toProgressResponse(entry model.ProgressEntry) ProgressResponse {
	return ProgressResponse{
		ID:               entry.ID,
		UserID:           entry.UserID,
		PathID:           entry.PathID,
		ModuleID:         entry.ModuleID,
		TimeSpentMinutes: entry.TimeSpentMinutes,
		Completed:        entry.Completed,
		Notes:            entry.Notes,
		UpdatedAt:        entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toAssessmentResponse(assessment model.Assessment) AssessmentResponse {
	responses := make([]PracticeScoreResponse, 0, len(assessment.Responses))
	for _, r := range assessment.Responses {
		responses = append(responses, PracticeScoreResponse{
			Practice: r.Practice,
			Score:    r.Score,
		})
	}

	return AssessmentResponse{
		ID:            assessment.ID,
		UserID:        assessment.UserID,
		Responses:     responses,
		OverallScore:  assessment.OverallScore,
		MaturityLevel: assessment.MaturityLevel,
		CreatedAt:     assessment.CreatedAt.UTC().Format(time.RFC3339),
	}
}
