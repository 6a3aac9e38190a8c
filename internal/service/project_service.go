package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	gocache "github.com/patrickmn/go-cache"

	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/events"
	"github.com/connect4change/platform/internal/persistence"
	"github.com/connect4change/platform/internal/repository"
	apperrors "github.com/connect4change/platform/pkg/util"
)

const (
	projectDetailCacheTTL = time.Minute
	nameCacheTTL          = 5 * time.Minute
)

var projectTransitions = map[domain.ProjectStatus][]domain.ProjectStatus{
	domain.ProjectStatusPlanning:  {domain.ProjectStatusActive, domain.ProjectStatusCancelled},
	domain.ProjectStatusActive:    {domain.ProjectStatusCompleted, domain.ProjectStatusCancelled},
	domain.ProjectStatusCompleted: {},
	domain.ProjectStatusCancelled: {},
}

func isValidProjectTransition(current, next domain.ProjectStatus) bool {
	for _, candidate := range projectTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ProjectService coordinates the issue-to-project lifecycle.
type ProjectService struct {
	projects   repository.ProjectRepository
	issues     repository.IssueRepository
	comments   repository.CommentRepository
	volunteers repository.VolunteerRepository
	projEvents repository.ProjectEventRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	cache      *persistence.Redis
	names      *gocache.Cache
}

// ProjectDependencies bundles repositories for the project service.
type ProjectDependencies struct {
	ProjectRepo   repository.ProjectRepository
	IssueRepo     repository.IssueRepository
	CommentRepo   repository.CommentRepository
	VolunteerRepo repository.VolunteerRepository
	EventRepo     repository.ProjectEventRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
	Cache         *persistence.Redis
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	return &ProjectService{
		projects:   deps.ProjectRepo,
		issues:     deps.IssueRepo,
		comments:   deps.CommentRepo,
		volunteers: deps.VolunteerRepo,
		projEvents: deps.EventRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		names:      gocache.New(nameCacheTTL, 2*nameCacheTTL),
	}
}

// ProjectOverrides are caller-supplied fields applied on top of the
// issue's copied data during conversion.
type ProjectOverrides struct {
	StartDate        *time.Time
	EndDate          *time.Time
	ImageURL         *string
	VolunteersNeeded *int
	Skills           []string
	Events           []ProjectEventInput
}

// ProjectCreateInput describes a standalone project payload.
type ProjectCreateInput struct {
	Title            string
	Description      string
	Category         domain.Category
	Location         domain.Point
	StartDate        *time.Time
	EndDate          *time.Time
	ImageURL         *string
	VolunteersNeeded *int
	Skills           []string
}

// ProjectEventInput describes a scheduled activity payload.
type ProjectEventInput struct {
	Title         string
	Description   string
	Date          time.Time
	Location      string
	DurationHours float64
}

// CommentView pairs a comment with its resolved author name.
type CommentView struct {
	Comment    domain.Comment
	AuthorName string
}

// ProjectView pairs a project with its resolved organization name.
type ProjectView struct {
	Project          domain.Project
	OrganizationName string
}

// ProjectDetail is the full read model for a single project.
type ProjectDetail struct {
	Project          domain.Project               `json:"project"`
	OrganizationName string                       `json:"organization_name"`
	Comments         []CommentView                `json:"comments"`
	Volunteers       []domain.VolunteerMembership `json:"volunteers"`
	Events           []domain.ProjectEvent        `json:"events"`
}

// CreateFromIssue converts an issue into a project. Title, description,
// category and location are copied from the issue; the issue is marked
// in-progress in the same transaction as the project insert.
func (s *ProjectService) CreateFromIssue(ctx context.Context, caller auth.Caller, issueID string, overrides ProjectOverrides) (*domain.Project, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionProjectCreate, auth.Resource{})); err != nil {
		return nil, err
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("issue", nil)
		}
		return nil, apperrors.MapError(err)
	}

	project := &domain.Project{
		Title:            issue.Title,
		Description:      issue.Description,
		OrganizationID:   caller.ID,
		Category:         issue.Category,
		Location:         issue.Location,
		StartDate:        time.Now(),
		VolunteersNeeded: 1,
		Status:           domain.ProjectStatusPlanning,
		RelatedIssueID:   &issue.ID,
	}
	applyOverrides(project, overrides)

	if err := s.projects.CreateFromIssue(ctx, project, issue.ID); err != nil {
		return nil, apperrors.MapError(err)
	}

	for i := range overrides.Events {
		event, err := buildProjectEvent(project.ID, overrides.Events[i])
		if err != nil {
			return nil, err
		}
		if err := s.projEvents.Create(ctx, event); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProjectCreated,
		SubjectID: project.ID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload: events.ProjectCreatedPayload{
			Title:          project.Title,
			OrganizationID: project.OrganizationID,
			RelatedIssueID: project.RelatedIssueID,
		},
	})
	return project, nil
}

// CreateStandalone creates a project not linked to any issue.
func (s *ProjectService) CreateStandalone(ctx context.Context, caller auth.Caller, input ProjectCreateInput) (*domain.Project, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionProjectCreate, auth.Resource{})); err != nil {
		return nil, err
	}

	details := map[string]any{}
	title := strings.TrimSpace(input.Title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 100 {
		details["title"] = "must be 3-100 characters"
	}
	if strings.TrimSpace(input.Description) == "" {
		details["description"] = "required"
	}
	if !input.Category.Valid() {
		details["category"] = "unknown category"
	}
	if !input.Location.Valid() {
		details["location"] = "coordinates out of range"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid project payload", details)
	}

	project := &domain.Project{
		Title:            title,
		Description:      strings.TrimSpace(input.Description),
		OrganizationID:   caller.ID,
		Category:         input.Category,
		Location:         input.Location,
		StartDate:        time.Now(),
		VolunteersNeeded: 1,
		Status:           domain.ProjectStatusPlanning,
	}
	applyOverrides(project, ProjectOverrides{
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		ImageURL:         input.ImageURL,
		VolunteersNeeded: input.VolunteersNeeded,
		Skills:           input.Skills,
	})

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProjectCreated,
		SubjectID: project.ID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload: events.ProjectCreatedPayload{
			Title:          project.Title,
			OrganizationID: project.OrganizationID,
		},
	})
	return project, nil
}

func applyOverrides(project *domain.Project, overrides ProjectOverrides) {
	if overrides.StartDate != nil {
		project.StartDate = *overrides.StartDate
	}
	if overrides.EndDate != nil {
		project.EndDate = overrides.EndDate
	}
	if overrides.ImageURL != nil {
		project.ImageURL = overrides.ImageURL
	}
	if overrides.VolunteersNeeded != nil && *overrides.VolunteersNeeded >= 1 {
		project.VolunteersNeeded = *overrides.VolunteersNeeded
	}
	if overrides.Skills != nil {
		project.Skills = overrides.Skills
	}
}

func buildProjectEvent(projectID string, input ProjectEventInput) (*domain.ProjectEvent, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("event title required", nil)
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("event date required", nil)
	}
	return &domain.ProjectEvent{
		ProjectID:     projectID,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Date:          input.Date,
		Location:      input.Location,
		DurationHours: input.DurationHours,
	}, nil
}

// AddComment appends to the project thread with a server-assigned timestamp.
func (s *ProjectService) AddComment(ctx context.Context, caller auth.Caller, projectID, text string) (*domain.Comment, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionCommentCreate, auth.Resource{})); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}

	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ProjectID: projectID,
		AuthorID:  caller.ID,
		Text:      text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateDetail(ctx, projectID)

	s.publish(ctx, events.Event{
		Type:      events.EventCommentAdded,
		SubjectID: projectID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    caller.ID,
			TextPreview: preview(text, 80),
		},
	})
	return comment, nil
}

// TransitionStatus moves a project along its lifecycle. Only the owning
// organization may transition its own project.
func (s *ProjectService) TransitionStatus(ctx context.Context, caller auth.Caller, projectID string, target domain.ProjectStatus) (*domain.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionProjectTransition, auth.Resource{OwnerID: project.OrganizationID})); err != nil {
		return nil, err
	}
	if !isValidProjectTransition(project.Status, target) {
		return nil, apperrors.NewInvalidTransition(string(project.Status), string(target))
	}

	oldStatus := project.Status
	project.Status = target
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateDetail(ctx, projectID)

	// Cancelling a project does not revert the related issue's status.
	s.publish(ctx, events.Event{
		Type:      events.EventProjectStatusChanged,
		SubjectID: projectID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload:   events.ProjectStatusChangedPayload{OldStatus: oldStatus, NewStatus: target},
	})
	return project, nil
}

// JoinAsVolunteer enrolls the caller in the project roster.
func (s *ProjectService) JoinAsVolunteer(ctx context.Context, caller auth.Caller, projectID string) (*domain.VolunteerMembership, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionProjectJoin, auth.Resource{})); err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == domain.ProjectStatusCompleted || project.Status == domain.ProjectStatusCancelled {
		return nil, apperrors.NewValidationError("project is no longer accepting volunteers", nil)
	}

	membership := &domain.VolunteerMembership{
		ProjectID:   projectID,
		VolunteerID: caller.ID,
		Status:      domain.MembershipStatusActive,
		Hours:       0,
	}
	if err := s.volunteers.Create(ctx, membership); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("already joined this project", nil)
		}
		return nil, apperrors.MapError(err)
	}
	s.invalidateDetail(ctx, projectID)

	s.publish(ctx, events.Event{
		Type:      events.EventVolunteerJoined,
		SubjectID: projectID,
		Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
		Payload:   events.VolunteerJoinedPayload{VolunteerID: caller.ID},
	})
	return membership, nil
}

// ScheduleEvent adds a scheduled activity to a project the caller owns.
func (s *ProjectService) ScheduleEvent(ctx context.Context, caller auth.Caller, projectID string, input ProjectEventInput) (*domain.ProjectEvent, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionEventSchedule, auth.Resource{OwnerID: project.OrganizationID})); err != nil {
		return nil, err
	}

	event, err := buildProjectEvent(projectID, input)
	if err != nil {
		return nil, err
	}
	if err := s.projEvents.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateDetail(ctx, projectID)
	return event, nil
}

// ListAll returns all projects with resolved organization names.
func (s *ProjectService) ListAll(ctx context.Context) ([]ProjectView, error) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.toViews(ctx, projects), nil
}

// ListByOrganization returns an organization's projects.
func (s *ProjectService) ListByOrganization(ctx context.Context, orgID string) ([]ProjectView, error) {
	projects, err := s.projects.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.toViews(ctx, projects), nil
}

// GetByID assembles the full project read model, served through a short
// lived cache since project detail is the hottest public read.
func (s *ProjectService) GetByID(ctx context.Context, projectID string) (*ProjectDetail, error) {
	cacheKey := "project:detail:" + projectID
	if payload, ok := s.cache.Get(ctx, cacheKey); ok {
		var detail ProjectDetail
		if err := json.Unmarshal(payload, &detail); err == nil {
			return &detail, nil
		}
	}

	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	volunteers, err := s.volunteers.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	schedule, err := s.projEvents.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	commentViews := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		commentViews = append(commentViews, CommentView{
			Comment:    comment,
			AuthorName: s.displayName(ctx, comment.AuthorID),
		})
	}

	detail := &ProjectDetail{
		Project:          *project,
		OrganizationName: s.displayName(ctx, project.OrganizationID),
		Comments:         commentViews,
		Volunteers:       volunteers,
		Events:           schedule,
	}

	if payload, err := json.Marshal(detail); err == nil {
		s.cache.Set(ctx, cacheKey, payload, projectDetailCacheTTL)
	}
	return detail, nil
}

func (s *ProjectService) getProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("project", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

func (s *ProjectService) toViews(ctx context.Context, projects []domain.Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, ProjectView{
			Project:          projects[i],
			OrganizationName: s.displayName(ctx, projects[i].OrganizationID),
		})
	}
	return views
}

// displayName resolves a user id to a display name through a small TTL
// cache. Unresolvable authors render as "Anonymous" (tolerant read).
func (s *ProjectService) displayName(ctx context.Context, userID string) string {
	if name, ok := s.names.Get(userID); ok {
		return name.(string)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "Anonymous"
	}
	name := user.DisplayName()
	s.names.Set(userID, name, gocache.DefaultExpiration)
	return name
}

func (s *ProjectService) invalidateDetail(ctx context.Context, projectID string) {
	s.cache.Delete(ctx, "project:detail:"+projectID)
}

func (s *ProjectService) publish(ctx context.Context, event events.Event) {
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

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	runes := []rune(body)
	return string(runes[:max-3]) + "..."
}
