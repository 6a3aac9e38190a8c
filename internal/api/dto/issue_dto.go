package dto

import (
	"time"

	"github.com/connect4change/platform/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	ImageURL    *string         `json:"image_url"`
	Location    domain.Point    `json:"location"`
}

// ReviewIssueRequest payload for resolving or rejecting an issue.
type ReviewIssueRequest struct {
	Status domain.IssueStatus `json:"status"`
}

// IssueResponse response shape.
type IssueResponse struct {
	ID          string             `json:"id"`
	ReporterID  string             `json:"reporter_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    domain.Category    `json:"category"`
	ImageURL    *string            `json:"image_url,omitempty"`
	Location    domain.Point       `json:"location"`
	Status      domain.IssueStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewIssueResponse maps a domain issue.
func NewIssueResponse(issue *domain.Issue) IssueResponse {
	return IssueResponse{
		ID:          issue.ID,
		ReporterID:  issue.ReporterID,
		Title:       issue.Title,
		Description: issue.Description,
		Category:    issue.Category,
		ImageURL:    issue.ImageURL,
		Location:    issue.Location,
		Status:      issue.Status,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

// NewIssueResponses maps a slice of issues.
func NewIssueResponses(issues []domain.Issue) []IssueResponse {
	items := make([]IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, NewIssueResponse(&issues[i]))
	}
	return items
}
