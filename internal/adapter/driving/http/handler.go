// Package httphandler is the HTTP driving adapter serving the REST API.
package httphandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian/internal/application"
	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	auth        *application.AuthService
	dashboard   *application.DashboardService
	insights    *application.InsightService
	paths       *application.LearningPathService
	assessments *application.AssessmentService
	projects    driven.ProjectStore
	users       driven.UserStore
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	auth *application.AuthService,
	dashboard *application.DashboardService,
	insights *application.InsightService,
	paths *application.LearningPathService,
	assessments *application.AssessmentService,
	projects driven.ProjectStore,
	users driven.UserStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		dashboard:   dashboard,
		insights:    insights,
		paths:       paths,
		assessments: assessments,
		projects:    projects,
		users:       users,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, proxy *MCPProxy, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/github", h.GitHubLogin)
	mux.HandleFunc("GET /api/v1/auth/me", h.Me)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("PUT /api/v1/auth/role", h.UpdateRole)

	mux.HandleFunc("GET /api/v1/profiles/{userID}", h.GetProfile)
	mux.HandleFunc("PUT /api/v1/profiles/{userID}/skills", h.UpdateSkills)

	mux.HandleFunc("GET /api/v1/dashboard/metrics", h.DashboardMetrics)
	mux.HandleFunc("GET /api/v1/repositories", h.ListRepositories)
	mux.HandleFunc("POST /api/v1/repositories/{owner}/{repo}/insights", h.AnalyzeRepository)

	mux.HandleFunc("POST /api/v1/projects", h.CreateProject)
	mux.HandleFunc("GET /api/v1/projects/manager/{managerID}", h.ListProjectsByManager)
	mux.HandleFunc("GET /api/v1/projects/{projectID}/team", h.ProjectTeam)
	mux.HandleFunc("DELETE /api/v1/projects/{projectID}", h.RemoveProject)

	mux.HandleFunc("GET /api/v1/learning-paths", h.ListLearningPaths)
	mux.HandleFunc("POST /api/v1/learning-paths/goals", h.CreateGoal)
	mux.HandleFunc("GET /api/v1/learning-paths/goals", h.ListGoals)
	mux.HandleFunc("POST /api/v1/learning-paths/progress", h.RecordProgress)

	mux.HandleFunc("POST /api/v1/devops-culture/assessments", h.SubmitAssessment)
	mux.HandleFunc("GET /api/v1/devops-culture/assessments/{id}", h.GetAssessment)
	mux.HandleFunc("GET /api/v1/devops-culture/users/{userID}/assessments", h.AssessmentHistory)

	mux.HandleFunc("GET /api/v1/health", h.Health)

	if proxy != nil {
		mux.Handle("/api/v1/mcp/{path...}", proxy)
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// authenticate resolves the bearer token on the request to a user.
func (h *Handler) authenticate(r *http.Request) (*model.User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, application.ErrInvalidToken
	}
	return h.auth.UserFromToken(r.Context(), token)
}

// decode unmarshals the request body into v, limiting body size to 1MB.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}

// Signup creates a new user account.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req.Name, req.Email, model.Role(req.Role))
	if errors.Is(err, driven.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "email already registered")
		return
	}
	if err != nil {
		h.logger.Error("signup failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{User: toUserResponse(*user), Token: token})
}

// Login signs a user in by email. Unknown demo emails are auto-provisioned.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email)
	if errors.Is(err, application.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: toUserResponse(*user), Token: token})
}

// GitHubLogin exchanges an OAuth code and signs the GitHub account in.
func (h *Handler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	var req GitHubLoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	user, token, err := h.auth.LoginWithGitHub(r.Context(), req.Code, model.Role(req.Role))
	if errors.Is(err, application.ErrOAuthUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "github login is not configured")
		return
	}
	if err != nil {
		h.logger.Error("github login failed", "error", err)
		writeError(w, http.StatusUnauthorized, "github authentication failed")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: toUserResponse(*user), Token: token})
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

// Logout acknowledges a logout. Tokens are derived, not stored, so the client
// dropping the token is the whole operation.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// UpdateRole changes the authenticated user's role.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req RoleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.auth.UpdateRole(r.Context(), user.ID, model.Role(req.Role)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

// GetProfile returns a user's profile by ID.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), r.PathValue("userID"))
	if errors.Is(err, driven.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

// UpdateSkills replaces a user's skill list.
func (h *Handler) UpdateSkills(w http.ResponseWriter, r *http.Request) {
	var req SkillsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := r.PathValue("userID")
	err := h.users.UpdateSkills(r.Context(), userID, req.Skills)
	if errors.Is(err, driven.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update skills", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "skills updated"})
}

// DashboardMetrics fetches the user's repositories and returns the aggregated
// DevOps score object.
func (h *Handler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	metrics, _, err := h.dashboard.Metrics(r.Context(), user)
	if errors.Is(err, application.ErrNoGitHubToken) {
		writeError(w, http.StatusBadRequest, "no github account linked")
		return
	}
	if err != nil {
		h.logger.Error("failed to compute dashboard metrics", "user", user.ID, "error", err)
		writeError(w, http.StatusBadGateway, "repository provider unavailable")
		return
	}

	writeJSON(w, http.StatusOK, toMetricsResponse(metrics))
}

// ListRepositories returns the authenticated user's repositories.
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	repos, err := h.dashboard.Repositories(r.Context(), user)
	if errors.Is(err, application.ErrNoGitHubToken) {
		writeError(w, http.StatusBadRequest, "no github account linked")
		return
	}
	if err != nil {
		h.logger.Error("failed to list repositories", "user", user.ID, "error", err)
		writeError(w, http.StatusBadGateway, "repository provider unavailable")
		return
	}

	resp := make([]RepositoryResponse, 0, len(repos))
	for _, repo := range repos {
		resp = append(resp, toRepositoryResponse(repo))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AnalyzeRepository runs an insight analysis for one repository. The response
// is always 200; engine failures surface as the fixed fallback insight.
func (h *Handler) AnalyzeRepository(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	// An empty body means "use the role's default persona".
	var req InsightRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	persona := model.Persona(req.Persona)
	if !persona.Valid() {
		persona = defaultPersona(user.Role)
	}

	owner := r.PathValue("owner")
	name := r.PathValue("repo")
	repo := model.Repository{Name: name, FullName: owner + "/" + name}

	// A missing file set degrades the analysis, it does not fail it.
	files, err := h.dashboard.KeyFiles(r.Context(), user, owner, name)
	if err != nil {
		h.logger.Warn("key file fetch failed", "repo", repo.FullName, "error", err)
	}

	insights := h.insights.Analyze(r.Context(), user.ID, repo, files, persona)

	// The file-based pattern scan rides along with every insight run, AI or
	// fallback, so the dashboard always has something concrete to show.
	resp := toInsightsResponse(insights)
	resp.Patterns = toPatternAnalysisResponse(application.AnalyzeDevOpsPatterns(files), application.MaturityScore(files))

	writeJSON(w, http.StatusOK, resp)
}

// CreateProject creates a project and its member assignments.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.ManagerID == "" {
		writeError(w, http.StatusBadRequest, "name and manager_id are required")
		return
	}

	now := time.Now().UTC()
	project := model.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		CreatedAt:   now,
	}

	assignments := make([]model.Assignment, 0, len(req.MemberIDs))
	for _, memberID := range req.MemberIDs {
		assignments = append(assignments, model.Assignment{
			ID:         uuid.NewString(),
			ProjectID:  project.ID,
			UserID:     memberID,
			Role:       "member",
			AssignedAt: now,
		})
	}

	if err := h.projects.Create(r.Context(), project, assignments); err != nil {
		h.logger.Error("failed to create project", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	project.MemberCount = len(assignments)
	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

// ListProjectsByManager returns a manager's projects with member counts.
func (h *Handler) ListProjectsByManager(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListByManager(r.Context(), r.PathValue("managerID"))
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ProjectTeam returns a project's assignments joined with member accounts.
func (h *Handler) ProjectTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.projects.Team(r.Context(), r.PathValue("projectID"))
	if err != nil {
		h.logger.Error("failed to load project team", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]TeamMemberResponse, 0, len(team))
	for _, m := range team {
		resp = append(resp, toTeamMemberResponse(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

// RemoveProject deletes a project and its assignments.
func (h *Handler) RemoveProject(w http.ResponseWriter, r *http.Request) {
	err := h.projects.Remove(r.Context(), r.PathValue("projectID"))
	if errors.Is(err, driven.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to remove project", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "project removed"})
}

// ListLearningPaths returns the user's learning paths, falling back to the
// demo dataset when the user has no repository-specific data.
func (h *Handler) ListLearningPaths(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	paths, err := h.paths.PathsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list learning paths", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]LearningPathResponse, 0, len(paths))
	for _, p := range paths {
		resp = append(resp, toLearningPathResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateGoal records a personal learning goal.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "user_id and title are required")
		return
	}

	goal, err := h.paths.CreateGoal(r.Context(), model.LearningGoal{
		UserID:       req.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Category:     req.Category,
		CurrentLevel: req.CurrentLevel,
		TargetLevel:  req.TargetLevel,
		Motivation:   req.Motivation,
		TargetDate:   req.TargetDate,
	})
	if err != nil {
		h.logger.Error("failed to create goal", "user", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toLearningGoalResponse(*goal))
}

// ListGoals returns a user's learning goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	goals, err := h.paths.GoalsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list goals", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]LearningGoalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, toLearningGoalResponse(g))
	}

	writeJSON(w, http.StatusOK, resp)
}

// RecordProgress stores time spent on a learning module.
func (h *Handler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	var req RecordProgressRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" || req.PathID == "" {
		writeError(w, http.StatusBadRequest, "user_id and path_id are required")
		return
	}

	entry, err := h.paths.RecordProgress(r.Context(), model.ProgressEntry{
		UserID:           req.UserID,
		PathID:           req.PathID,
		ModuleID:         req.ModuleID,
		TimeSpentMinutes: req.TimeSpentMinutes,
		Completed:        req.Completed,
		Notes:            req.Notes,
	})
	if err != nil {
		h.logger.Error("failed to record progress", "user", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toProgressResponse(*entry))
}

// SubmitAssessment scores and stores a culture self-assessment.
func (h *Handler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var req SubmitAssessmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	responses := make([]model.PracticeScore, 0, len(req.Responses))
	for _, resp := range req.Responses {
		responses = append(responses, model.PracticeScore{
			Practice: resp.Practice,
			Score:    resp.Score,
		})
	}

	assessment, err := h.assessments.Submit(r.Context(), req.UserID, responses)
	if errors.Is(err, application.ErrNoResponses) {
		writeError(w, http.StatusBadRequest, "at least one response is required")
		return
	}
	if err != nil {
		h.logger.Error("failed to submit assessment", "user", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toAssessmentResponse(*assessment))
}

// GetAssessment returns one assessment by ID.
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.assessments.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, driven.ErrAssessmentNotFound) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get assessment", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toAssessmentResponse(*assessment))
}

// AssessmentHistory returns a user's assessments with the improvement trend.
func (h *Handler) AssessmentHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	history, trend, err := h.assessments.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load assessment history", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := AssessmentHistoryResponse{
		Assessments: make([]AssessmentResponse, 0, len(history)),
		Trend:       TrendResponse{Direction: trend.Direction, Delta: trend.Delta},
	}
	for _, a := range history {
		resp.Assessments = append(resp.Assessments, toAssessmentResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// defaultPersona maps an account role to the persona used when the request
// does not name one.
func defaultPersona(role model.Role) model.Persona {
	switch role {
	case model.RoleStudent:
		return model.PersonaStudent
	case model.RoleManager:
		return model.PersonaManager
	default:
		return model.PersonaProfessional
	}
}
