package dto

import (
	"time"

	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/service"
)

// CreateProjectRequest payload for standalone projects.
type CreateProjectRequest struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Category         domain.Category `json:"category"`
	Location         domain.Point    `json:"location"`
	StartDate        *time.Time      `json:"start_date"`
	EndDate          *time.Time      `json:"end_date"`
	ImageURL         *string         `json:"image_url"`
	VolunteersNeeded *int            `json:"volunteers_needed"`
	Skills           []string        `json:"skills"`
}

// ConvertIssueRequest payload; every field overrides the copied issue data.
type ConvertIssueRequest struct {
	StartDate        *time.Time            `json:"start_date"`
	EndDate          *time.Time            `json:"end_date"`
	ImageURL         *string               `json:"image_url"`
	VolunteersNeeded *int                  `json:"volunteers_needed"`
	Skills           []string              `json:"skills"`
	Events           []ProjectEventRequest `json:"events"`
}

// ProjectEventRequest payload for scheduled activities.
type ProjectEventRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	DurationHours float64   `json:"duration_hours"`
}

// TransitionRequest payload for lifecycle changes.
type TransitionRequest struct {
	Status domain.ProjectStatus `json:"status"`
}

// CommentRequest payload.
type CommentRequest struct {
	Text string `json:"text"`
}

// ProjectSummary response shape for listings.
type ProjectSummary struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Organization     string               `json:"organization"`
	OrganizationID   string               `json:"organization_id"`
	Category         domain.Category      `json:"category"`
	Location         domain.Point         `json:"location"`
	StartDate        time.Time            `json:"start_date"`
	EndDate          *time.Time           `json:"end_date,omitempty"`
	ImageURL         *string              `json:"image_url,omitempty"`
	VolunteersNeeded int                  `json:"volunteers_needed"`
	Status           domain.ProjectStatus `json:"status"`
	Skills           []string             `json:"skills,omitempty"`
	RelatedIssueID   *string              `json:"related_issue_id,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// CommentResponse response shape with resolved author name.
type CommentResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// VolunteerResponse roster entry.
type VolunteerResponse struct {
	ID          string                  `json:"id"`
	VolunteerID string                  `json:"volunteer_id"`
	JoinedAt    time.Time               `json:"joined_at"`
	Status      domain.MembershipStatus `json:"status"`
	Hours       float64                 `json:"hours"`
}

// ProjectEventResponse scheduled activity.
type ProjectEventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location,omitempty"`
	DurationHours float64   `json:"duration_hours"`
}

// ProjectDetailResponse full project read model.
type ProjectDetailResponse struct {
	ProjectSummary
	Comments   []CommentResponse      `json:"comments"`
	Volunteers []VolunteerResponse    `json:"volunteers"`
	Events     []ProjectEventResponse `json:"events"`
}

// NewProjectSummary maps a resolved project view.
func NewProjectSummary(view service.ProjectView) ProjectSummary {
	p := view.Project
	return ProjectSummary{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Organization:     view.OrganizationName,
		OrganizationID:   p.OrganizationID,
		Category:         p.Category,
		Location:         p.Location,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		ImageURL:         p.ImageURL,
		VolunteersNeeded: p.VolunteersNeeded,
		Status:           p.Status,
		Skills:           p.Skills,
		RelatedIssueID:   p.RelatedIssueID,
		CreatedAt:        p.CreatedAt,
	}
}

// NewProjectSummaries maps a slice of views.
func NewProjectSummaries(views []service.ProjectView) []ProjectSummary {
	items := make([]ProjectSummary, 0, len(views))
	for _, view := range views {
		items = append(items, NewProjectSummary(view))
	}
	return items
}

// NewProjectDetailResponse maps the detail read model.
func NewProjectDetailResponse(detail *service.ProjectDetail) ProjectDetailResponse {
	resp := ProjectDetailResponse{
		ProjectSummary: NewProjectSummary(service.ProjectView{
			Project:          detail.Project,
			OrganizationName: detail.OrganizationName,
		}),
		Comments:   make([]CommentResponse, 0, len(detail.Comments)),
		Volunteers: make([]VolunteerResponse, 0, len(detail.Volunteers)),
		Events:     make([]ProjectEventResponse, 0, len(detail.Events)),
	}
	for _, view := range detail.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:        view.Comment.ID,
			Author:    view.AuthorName,
			AuthorID:  view.Comment.AuthorID,
			Text:      view.Comment.Text,
			CreatedAt: view.Comment.CreatedAt,
		})
	}
	for _, m := range detail.Volunteers {
		resp.Volunteers = append(resp.Volunteers, VolunteerResponse{
			ID:          m.ID,
			VolunteerID: m.VolunteerID,
			JoinedAt:    m.JoinedAt,
			Status:      m.Status,
			Hours:       m.Hours,
		})
	}
	for _, e := range detail.Events {
		resp.Events = append(resp.Events, ProjectEventResponse{
			ID:            e.ID,
			Title:         e.Title,
			Description:   e.Description,
			Date:          e.Date,
			Location:      e.Location,
			DurationHours: e.DurationHours,
		})
	}
	return resp
}
