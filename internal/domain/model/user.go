package model

import "time"

// Role is a user's selected role, which drives persona defaults and
// manager-only views.
type Role string

const (
	RoleStudent      Role = "student"
	RoleProfessional Role = "professional"
	RoleManager      Role = "manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessional, RoleManager:
		return true
	}
	return false
}

// User is an account in the Meridian service. GitHub fields are populated only
// for accounts created or linked through the OAuth flow; GitHubToken is the
// user's GitHub access token used for repository fetches on their behalf.
type User struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	Skills         []string
	GitHubID       int64
	GitHubUsername string
	AvatarURL      string
	GitHubToken    string
	CreatedAt      time.Time
}

// GitHubProfile is the subset of a GitHub account used to create or refresh a
// Meridian user during OAuth sign-in.
type GitHubProfile struct {
	ID          int64
	Username    string
	Name        string
	Email       string
	AvatarURL   string
	AccessToken string
}
