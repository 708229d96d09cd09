package github

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.OAuthProvider = (*OAuthExchanger)(nil)

// OAuthExchanger implements the driven.OAuthProvider port using the
// golang.org/x/oauth2 GitHub endpoint.
type OAuthExchanger struct {
	conf *oauth2.Config
}

// NewOAuthExchanger creates an OAuthExchanger for the given GitHub OAuth app.
func NewOAuthExchanger(clientID, clientSecret string) *OAuthExchanger {
	return &OAuthExchanger{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauthgithub.Endpoint,
			Scopes:       []string{"read:user", "user:email", "repo"},
		},
	}
}

// Exchange trades an OAuth authorization code for an access token.
func (e *OAuthExchanger) Exchange(ctx context.Context, code string) (string, error) {
	token, err := e.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange oauth code: %w", err)
	}
	return token.AccessToken, nil
}
