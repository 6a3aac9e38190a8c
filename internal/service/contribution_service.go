package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/events"
	"github.com/connect4change/platform/internal/repository"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// ContributionService writes the append-only participation ledger.
type ContributionService struct {
	contributions repository.ContributionRepository
	projects      repository.ProjectRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
}

// NewContributionService constructs the service.
func NewContributionService(
	contributions repository.ContributionRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	dispatcher events.Dispatcher,
) *ContributionService {
	return &ContributionService{
		contributions: contributions,
		projects:      projects,
		users:         users,
		dispatcher:    dispatcher,
	}
}

// ContributionInput describes a logged participation entry.
type ContributionInput struct {
	ProjectID   string
	Hours       float64
	Description string
	Date        *time.Time
	Skills      []string
	Impact      string
	Community   string
}

// Record appends a ledger entry. The project's current title and
// organization name are captured at write time so the entry stays stable
// if the project is later renamed or removed. There is no update or
// delete; corrections are new compensating entries.
func (s *ContributionService) Record(ctx context.Context, caller auth.Caller, input ContributionInput) (*domain.Contribution, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionContributionRecord, auth.Resource{})); err != nil {
		return nil, err
	}
	if input.Hours <= 0 {
		return nil, apperrors.NewValidationError("hours must be positive", map[string]any{"hours": input.Hours})
	}

	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("project", nil)
		}
		return nil, apperrors.MapError(err)
	}

	orgName := ""
	if org, err := s.users.GetByID(ctx, project.OrganizationID); err == nil {
		orgName = org.DisplayName()
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	contribution := &domain.Contribution{
		VolunteerID:      caller.ID,
		ProjectID:        project.ID,
		ProjectTitle:     project.Title,
		OrganizationName: orgName,
		Date:             date,
		Hours:            input.Hours,
		Description:      input.Description,
		Status:           domain.ContributionStatusPending,
		Skills:           input.Skills,
		Impact:           input.Impact,
		Community:        input.Community,
	}
	if err := s.contributions.Create(ctx, contribution); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventContributionRecorded,
		SubjectID: contribution.ID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload: events.ContributionRecordedPayload{
			VolunteerID: caller.ID,
			ProjectID:   project.ID,
			Hours:       input.Hours,
		},
	})
	return contribution, nil
}

// ListByVolunteer returns the caller's ledger entries, newest first.
func (s *ContributionService) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Contribution, error) {
	entries, err := s.contributions.ListByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *ContributionService) publish(ctx context.Context, event events.Event) {
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
