package driven

import (
	"context"

	"github.com/meridianhq/meridian/internal/domain/model"
)

// InsightEngine defines the driven port for AI-generated DevOps insights.
// Implementations return an error on any transport or parse failure; the
// caller substitutes a fixed fallback so the dashboard never shows an empty
// state.
type InsightEngine interface {
	Analyze(ctx context.Context, repo model.Repository, files map[string]string, persona model.Persona) (*model.AIInsights, error)
}

// OAuthProvider defines the driven port for the GitHub OAuth code exchange.
type OAuthProvider interface {
	// Exchange trades an OAuth authorization code for an access token.
	Exchange(ctx context.Context, code string) (string, error)
}
