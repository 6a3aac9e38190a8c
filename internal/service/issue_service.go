package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/config"
	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/events"
	"github.com/connect4change/platform/internal/repository"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// IssueService coordinates issue reporting and review workflows.
type IssueService struct {
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
	geo        config.GeoConfig
}

// NewIssueService constructs the service.
func NewIssueService(issues repository.IssueRepository, dispatcher events.Dispatcher, geo config.GeoConfig) *IssueService {
	if geo.DefaultRadiusKm <= 0 {
		geo.DefaultRadiusKm = 10
	}
	if geo.MaxRadiusKm <= 0 {
		geo.MaxRadiusKm = 500
	}
	return &IssueService{issues: issues, dispatcher: dispatcher, geo: geo}
}

// IssueCreateInput describes an issue report payload.
type IssueCreateInput struct {
	Title       string
	Description string
	Category    domain.Category
	ImageURL    *string
	Location    domain.Point
}

// Client-side checks are advisory only; everything is re-validated here.
func (in *IssueCreateInput) validate() error {
	details := map[string]any{}
	title := strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 100 {
		details["title"] = "must be 3-100 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) < 10 {
		details["description"] = "must be at least 10 characters"
	}
	if !in.Category.Valid() {
		details["category"] = "unknown category"
	}
	if !in.Location.Valid() {
		details["location"] = "coordinates out of range"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid issue payload", details)
	}
	return nil
}

// Create reports a new issue on behalf of the caller.
func (s *IssueService) Create(ctx context.Context, caller auth.Caller, input IssueCreateInput) (*domain.Issue, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionIssueCreate, auth.Resource{})); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	issue := &domain.Issue{
		ReporterID:  caller.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Location:    input.Location,
		Status:      domain.IssueStatusPending,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventIssueCreated,
		SubjectID: issue.ID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload:   events.IssueCreatedPayload{Title: issue.Title, Category: issue.Category},
	})
	return issue, nil
}

// ListOpen returns issues not yet converted into a project.
func (s *IssueService) ListOpen(ctx context.Context) ([]domain.Issue, error) {
	issues, err := s.issues.ListOpen(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// ListByReporter returns the caller's own issues.
func (s *IssueService) ListByReporter(ctx context.Context, reporterID string) ([]domain.Issue, error) {
	issues, err := s.issues.ListByReporter(ctx, reporterID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// FindNear returns issues within radiusKm of the point, nearest first.
// The radius is kilometers at the boundary and meters internally.
func (s *IssueService) FindNear(ctx context.Context, point domain.Point, radiusKm *float64) ([]domain.Issue, error) {
	if !point.Valid() {
		return nil, apperrors.NewValidationError("invalid coordinates", map[string]any{
			"lat": point.Lat, "lng": point.Lng,
		})
	}
	radius := s.geo.DefaultRadiusKm
	if radiusKm != nil {
		if *radiusKm <= 0 {
			return nil, apperrors.NewValidationError("radius must be positive", nil)
		}
		radius = *radiusKm
	}
	if radius > s.geo.MaxRadiusKm {
		radius = s.geo.MaxRadiusKm
	}

	issues, err := s.issues.FindNear(ctx, point, radius*1000)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// MarkInProgress flips an issue to in-progress. Re-invoking on an
// already-in-progress issue is a no-op, not an error.
func (s *IssueService) MarkInProgress(ctx context.Context, issueID string) error {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("issue", nil)
		}
		return apperrors.MapError(err)
	}
	if issue.Status == domain.IssueStatusInProgress {
		return nil
	}
	if err := s.issues.UpdateStatus(ctx, issueID, domain.IssueStatusInProgress); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Review lets ngo and government accounts resolve or reject a pending issue.
func (s *IssueService) Review(ctx context.Context, caller auth.Caller, issueID string, target domain.IssueStatus) error {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionIssueReview, auth.Resource{})); err != nil {
		return err
	}
	if target != domain.IssueStatusResolved && target != domain.IssueStatusRejected {
		return apperrors.NewValidationError("status must be resolved or rejected", nil)
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("issue", nil)
		}
		return apperrors.MapError(err)
	}
	if issue.Status != domain.IssueStatusPending {
		return apperrors.NewInvalidTransition(string(issue.Status), string(target))
	}
	if err := s.issues.UpdateStatus(ctx, issueID, target); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventIssueReviewed,
		SubjectID: issueID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload:   events.IssueReviewedPayload{OldStatus: issue.Status, NewStatus: target},
	})
	return nil
}

func (s *IssueService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
