package domain

import "time"

// ContributionStatus enumerates states of a logged contribution.
type ContributionStatus string

const (
	ContributionStatusPending    ContributionStatus = "pending"
	ContributionStatusInProgress ContributionStatus = "in-progress"
	ContributionStatusCompleted  ContributionStatus = "completed"
	ContributionStatusCancelled  ContributionStatus = "cancelled"
)

// Contribution is an append-only audit record of volunteer hours.
// ProjectTitle and OrganizationName are denormalized at write time so
// ledger entries stay stable if the project is later renamed or removed.
type Contribution struct {
	ID               string
	VolunteerID      string
	ProjectID        string
	ProjectTitle     string
	OrganizationName string
	Date             time.Time
	Hours            float64
	Description      string
	Status           ContributionStatus
	Skills           []string
	Impact           string
	Community        string
	CreatedAt        time.Time
}
