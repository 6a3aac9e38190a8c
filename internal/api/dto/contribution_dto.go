package dto

import (
	"time"

	"github.com/connect4change/platform/internal/domain"
)

// RecordContributionRequest payload.
type RecordContributionRequest struct {
	ProjectID   string     `json:"project_id"`
	Hours       float64    `json:"hours"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
	Skills      []string   `json:"skills"`
	Impact      string     `json:"impact"`
	Community   string     `json:"community"`
}

// ContributionResponse ledger entry.
type ContributionResponse struct {
	ID               string                    `json:"id"`
	VolunteerID      string                    `json:"volunteer_id"`
	ProjectID        string                    `json:"project_id"`
	ProjectTitle     string                    `json:"project_title"`
	OrganizationName string                    `json:"organization_name,omitempty"`
	Date             time.Time                 `json:"date"`
	Hours            float64                   `json:"hours"`
	Description      string                    `json:"description,omitempty"`
	Status           domain.ContributionStatus `json:"status"`
	Skills           []string                  `json:"skills,omitempty"`
	Impact           string                    `json:"impact,omitempty"`
	Community        string                    `json:"community,omitempty"`
}

// NewContributionResponse maps a ledger entry.
func NewContributionResponse(c *domain.Contribution) ContributionResponse {
	return ContributionResponse{
		ID:               c.ID,
		VolunteerID:      c.VolunteerID,
		ProjectID:        c.ProjectID,
		ProjectTitle:     c.ProjectTitle,
		OrganizationName: c.OrganizationName,
		Date:             c.Date,
		Hours:            c.Hours,
		Description:      c.Description,
		Status:           c.Status,
		Skills:           c.Skills,
		Impact:           c.Impact,
		Community:        c.Community,
	}
}

// NewContributionResponses maps a slice of entries.
func NewContributionResponses(entries []domain.Contribution) []ContributionResponse {
	items := make([]ContributionResponse, 0, len(entries))
	for i := range entries {
		items = append(items, NewContributionResponse(&entries[i]))
	}
	return items
}
