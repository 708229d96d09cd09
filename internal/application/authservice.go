package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian/internal/domain/model"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// tokenPrefix is the bearer token format carried over from the original
// deployment. Tokens are derived from the user ID; there is no server-side
// session table to invalidate.
const tokenPrefix = "meridian_token_"

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrOAuthUnavailable   = errors.New("github oauth is not configured")
)

// demoUser is an auto-provisioned demo account keyed by login email.
type demoUser struct {
	id   string
	name string
	role model.Role
}

var demoUsers = map[string]demoUser{
	"student@demo.com": {id: "demo_student_id", name: "Demo Student", role: model.RoleStudent},
	"dev@demo.com":     {id: "demo_dev_id", name: "Demo Developer", role: model.RoleProfessional},
	"manager@demo.com": {id: "demo_manager_id", name: "Demo Manager", role: model.RoleManager},
}

// TokenForUser derives the bearer token for a user ID.
func TokenForUser(userID string) string {
	return tokenPrefix + userID
}

// AuthService handles signup, login, token resolution, and GitHub OAuth
// sign-in. oauth and github may be nil when OAuth credentials are not
// configured; LoginWithGitHub then returns ErrOAuthUnavailable.
type AuthService struct {
	users  driven.UserStore
	oauth  driven.OAuthProvider
	github driven.GitHubClientFactory
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users driven.UserStore, oauth driven.OAuthProvider, github driven.GitHubClientFactory) *AuthService {
	return &AuthService{
		users:  users,
		oauth:  oauth,
		github: github,
		logger: slog.Default(),
	}
}

// Signup creates a new account and returns the user with its bearer token.
// Returns driven.ErrEmailTaken when the email is already registered.
func (s *AuthService) Signup(ctx context.Context, name, email string, role model.Role) (*model.User, string, error) {
	if role == "" {
		role = model.RoleProfessional
	}
	if !role.Valid() {
		return nil, "", fmt.Errorf("invalid role %q", role)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, driven.ErrUserNotFound) {
		return nil, "", fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, "", driven.ErrEmailTaken
	}

	user := model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		Skills:    []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	return &user, TokenForUser(user.ID), nil
}

// Login authenticates by email. Unknown emails matching one of the demo
// accounts auto-provision that account; all other unknown emails fail with
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, driven.ErrUserNotFound) {
		demo, ok := demoUsers[email]
		if !ok {
			return nil, "", ErrInvalidCredentials
		}
		user, err = s.provisionDemoUser(ctx, email, demo)
	}
	if err != nil {
		return nil, "", fmt.Errorf("login %s: %w", email, err)
	}

	return user, TokenForUser(user.ID), nil
}

func (s *AuthService) provisionDemoUser(ctx context.Context, email string, demo demoUser) (*model.User, error) {
	user := model.User{
		ID:        demo.id,
		Name:      demo.name,
		Email:     email,
		Role:      demo.role,
		Skills:    []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("provision demo user: %w", err)
	}
	s.logger.Info("demo user provisioned", "email", email, "role", demo.role)
	return &user, nil
}

// UserFromToken resolves a bearer token to its user. Returns ErrInvalidToken
// for malformed tokens and tokens whose user no longer exists.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*model.User, error) {
	userID, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, driven.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}

	return user, nil
}

// UpdateRole changes a user's role after validating it.
func (s *AuthService) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	return s.users.UpdateRole(ctx, userID, role)
}

// LoginWithGitHub exchanges an OAuth authorization code, fetches the GitHub
// profile, and creates or refreshes the matching user keyed on GitHub ID.
func (s *AuthService) LoginWithGitHub(ctx context.Context, code string, role model.Role) (*model.User, string, error) {
	if s.oauth == nil || s.github == nil {
		return nil, "", ErrOAuthUnavailable
	}

	accessToken, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange oauth code: %w", err)
	}

	profile, err := s.github(accessToken).FetchAuthenticatedUser(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fetch github profile: %w", err)
	}
	profile.AccessToken = accessToken

	user, err := s.upsertGitHubUser(ctx, *profile, role)
	if err != nil {
		return nil, "", err
	}

	return user, TokenForUser(user.ID), nil
}

func (s *AuthService) upsertGitHubUser(ctx context.Context, profile model.GitHubProfile, role model.Role) (*model.User, error) {
	existing, err := s.users.GetByGitHubID(ctx, profile.ID)
	if err != nil && !errors.Is(err, driven.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup github user: %w", err)
	}

	if existing != nil {
		if err := s.users.UpdateGitHubData(ctx, existing.ID, profile); err != nil {
			return nil, fmt.Errorf("refresh github data: %w", err)
		}
		if role.Valid() {
			if err := s.users.UpdateRole(ctx, existing.ID, role); err != nil {
				return nil, fmt.Errorf("update role: %w", err)
			}
		}
		return s.users.GetByID(ctx, existing.ID)
	}

	if !role.Valid() {
		role = model.RoleProfessional
	}

	name := profile.Name
	if name == "" {
		name = profile.Username
	}

	user := model.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          profile.Email,
		Role:           role,
		Skills:         []string{},
		GitHubID:       profile.ID,
		GitHubUsername: profile.Username,
		AvatarURL:      profile.AvatarURL,
		GitHubToken:    profile.AccessToken,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create github user: %w", err)
	}

	return &user, nil
}
