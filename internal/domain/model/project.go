package model

import "time"

// Project is a manager-owned unit of work that team members are assigned to.
type Project struct {
	ID          string
	Name        string
	Description string
	ManagerID   string
	CreatedAt   time.Time
	MemberCount int
}

// Assignment links a user to a project with a project-local role.
type Assignment struct {
	ID         string
	ProjectID  string
	UserID     string
	Role       string
	AssignedAt time.Time
}

// TeamMember is an assignment joined with the assigned user's account data,
// as returned by the project team endpoint.
type TeamMember struct {
	Assignment
	Name  string
	Email string
}
