package model

import "time"

// Repository is a source-control repository fetched from GitHub for a signed-in
// user. It is immutable from this service's perspective within a session; the
// provider API is the system of record.
type Repository struct {
	ID          int64
	Name        string
	FullName    string
	Description string
	Language    string
	Stars       int
	Forks       int
	UpdatedAt   time.Time
	Private     bool
}
