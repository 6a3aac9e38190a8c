package events

import (
	"time"

	"github.com/connect4change/platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated         EventType = "issue_created"
	EventIssueReviewed        EventType = "issue_reviewed"
	EventProjectCreated       EventType = "project_created"
	EventProjectStatusChanged EventType = "project_status_changed"
	EventCommentAdded         EventType = "comment_added"
	EventVolunteerJoined      EventType = "volunteer_joined"
	EventContributionRecorded EventType = "contribution_recorded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Title    string          `json:"title"`
	Category domain.Category `json:"category"`
}

// IssueReviewedPayload payload.
type IssueReviewedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}

// ProjectCreatedPayload payload.
type ProjectCreatedPayload struct {
	Title          string  `json:"title"`
	OrganizationID string  `json:"organization_id"`
	RelatedIssueID *string `json:"related_issue_id,omitempty"`
}

// ProjectStatusChangedPayload payload.
type ProjectStatusChangedPayload struct {
	OldStatus domain.ProjectStatus `json:"old_status"`
	NewStatus domain.ProjectStatus `json:"new_status"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	AuthorID    string `json:"author_id"`
	TextPreview string `json:"text_preview"`
}

// VolunteerJoinedPayload payload.
type VolunteerJoinedPayload struct {
	VolunteerID string `json:"volunteer_id"`
}

// ContributionRecordedPayload payload.
type ContributionRecordedPayload struct {
	VolunteerID string  `json:"volunteer_id"`
	ProjectID   string  `json:"project_id"`
	Hours       float64 `json:"hours"`
}
