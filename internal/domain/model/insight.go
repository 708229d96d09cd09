package model

import "time"

// Persona is a selectable viewpoint used to tailor AI recommendations.
type Persona string

const (
	PersonaStudent      Persona = "Student"
	PersonaProfessional Persona = "Professional"
	PersonaManager      Persona = "Manager"
)

// Valid reports whether p is one of the known personas.
func (p Persona) Valid() bool {
	switch p {
	case PersonaStudent, PersonaProfessional, PersonaManager:
		return true
	}
	return false
}

// Suggestion is a single actionable DevOps recommendation produced by the
// insight engine.
type Suggestion struct {
	Category            string
	Priority            string
	Title               string
	Description         string
	ImplementationSteps []string
	Resources           []string
	EstimatedEffort     string
	BusinessImpact      string
}

// AIInsights is the analysis result for one repository. The DevOps score is a
// heuristic 0-100 composite, not a measured engineering metric. Fetched from
// the engine or fabricated as a fallback so the UI never shows an empty state.
type AIInsights struct {
	Persona         Persona
	DevOpsScore     int
	Suggestions     []Suggestion
	AnalysisSummary string
	GeneratedAt     time.Time
}

// AnalysisRecord is a persisted insight run, keyed to the user and repository
// it was generated for. Learning path generation reads these.
type AnalysisRecord struct {
	ID           string
	UserID       string
	RepoFullName string
	Insights     AIInsights
	CreatedAt    time.Time
}

// MaturityLevel maps a 0-100 score to a human-readable maturity band.
func MaturityLevel(score int) string {
	switch {
	case score >= 80:
		return "Advanced"
	case score >= 60:
		return "Intermediate"
	case score >= 40:
		return "Basic"
	default:
		return "Beginner"
	}
}
