package model

import "time"

// LearningModule is one step within a learning path.
type LearningModule struct {
	ID             string
	Title          string
	Description    string
	EstimatedHours int
	OrderIndex     int
}

// LearningPath is a structured learning journey for one DevOps concept,
// generated from a repository analysis or served from the demo dataset when
// the user has no repository-specific data.
type LearningPath struct {
	ID             string
	UserID         string
	Title          string
	Description    string
	Category       string
	Difficulty     string
	EstimatedHours int
	Tags           []string
	Modules        []LearningModule
	FromAnalysisID string
	CreatedAt      time.Time
}

// LearningGoal is a user's personal learning target.
type LearningGoal struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Priority     string
	Category     string
	CurrentLevel string
	TargetLevel  string
	Motivation   string
	Status       string
	TargetDate   string
	CreatedAt    time.Time
}

// ProgressEntry records time spent on a module of a learning path.
type ProgressEntry struct {
	ID               string
	UserID           string
	PathID           string
	ModuleID         string
	TimeSpentMinutes int
	Completed        bool
	Notes            string
	UpdatedAt        time.Time
}
