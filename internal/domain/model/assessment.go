package model

import "time"

// PracticeScore is one self-reported answer in a culture assessment: how well
// the team applies a named practice, 0-100.
type PracticeScore struct {
	Practice string
	Score    int
}

// Assessment is a submitted DevOps culture self-assessment with its computed
// overall score and maturity band.
type Assessment struct {
	ID            string
	UserID        string
	Responses     []PracticeScore
	OverallScore  int
	MaturityLevel string
	CreatedAt     time.Time
}

// Trend summarizes the direction of a user's assessment history.
type Trend struct {
	Direction string // "improving", "declining", or "steady"
	Delta     int
}
