package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusRejected   IssueStatus = "rejected"
)

// Category classifies issues and projects.
type Category string

const (
	CategoryEnvironment    Category = "Environment"
	CategoryEducation      Category = "Education"
	CategoryHealth         Category = "Health"
	CategoryInfrastructure Category = "Infrastructure"
	CategorySafety         Category = "Safety"
	CategoryOther          Category = "Other"
)

// Valid reports whether the category is one of the supported values.
func (c Category) Valid() bool {
	switch c {
	case CategoryEnvironment, CategoryEducation, CategoryHealth,
		CategoryInfrastructure, CategorySafety, CategoryOther:
		return true
	}
	return false
}

// Issue is a community-reported problem awaiting action.
type Issue struct {
	ID          string
	ReporterID  string
	Title       string
	Description string
	Category    Category
	ImageURL    *string
	Location    Point
	Status      IssueStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
