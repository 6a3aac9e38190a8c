package domain

import "time"

// ProjectStatus enumerates lifecycle states for projects.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// MembershipStatus enumerates states of a volunteer's project membership.
type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusCompleted MembershipStatus = "completed"
	MembershipStatusLeft      MembershipStatus = "left"
)

// Project is an organized response effort, usually converted from an Issue.
type Project struct {
	ID               string
	Title            string
	Description      string
	OrganizationID   string
	Category         Category
	Location         Point
	StartDate        time.Time
	EndDate          *time.Time
	ImageURL         *string
	VolunteersNeeded int
	Status           ProjectStatus
	Skills           []string
	RelatedIssueID   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Comment is an append-only note on a project thread.
type Comment struct {
	ID        string
	ProjectID string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// VolunteerMembership records a volunteer's participation in a project.
type VolunteerMembership struct {
	ID          string
	ProjectID   string
	VolunteerID string
	JoinedAt    time.Time
	Status      MembershipStatus
	Hours       float64
}

// ProjectEvent is a scheduled activity within a project.
type ProjectEvent struct {
	ID            string
	ProjectID     string
	Title         string
	Description   string
	Date          time.Time
	Location      string
	DurationHours float64
	CreatedAt     time.Time
}
