package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/events"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// In-memory user repository enforcing the same unique constraints as the
// database schema.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return uniqueViolation()
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if existing.Email == user.Email || existing.Username == user.Username {
			return uniqueViolation()
		}
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memIssueRepo struct {
	mu     sync.Mutex
	issues map[string]*domain.Issue
}

func newMemIssueRepo() *memIssueRepo {
	return &memIssueRepo{issues: map[string]*domain.Issue{}}
}

func (r *memIssueRepo) Create(ctx context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue.ID = uuid.NewString()
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	clone := *issue
	r.issues[issue.ID] = &clone
	return nil
}

func (r *memIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if issue, ok := r.issues[id]; ok {
		clone := *issue
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memIssueRepo) ListOpen(ctx context.Context) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Issue
	for _, issue := range r.issues {
		if issue.Status != domain.IssueStatusInProgress {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (r *memIssueRepo) ListByReporter(ctx context.Context, reporterID string) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Issue
	for _, issue := range r.issues {
		if issue.ReporterID == reporterID {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (r *memIssueRepo) FindNear(ctx context.Context, point domain.Point, radiusMeters float64) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Issue
	for _, issue := range r.issues {
		if point.DistanceMeters(issue.Location) <= radiusMeters {
			out = append(out, *issue)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return point.DistanceMeters(out[i].Location) < point.DistanceMeters(out[j].Location)
	})
	return out, nil
}

func (r *memIssueRepo) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return pgx.ErrNoRows
	}
	issue.Status = status
	issue.UpdatedAt = time.Now()
	return nil
}

// memProjectRepo pairs with a memIssueRepo so CreateFromIssue can flip the
// issue status the way the transactional implementation does.
type memProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	issues   *memIssueRepo
}

func newMemProjectRepo(issues *memIssueRepo) *memProjectRepo {
	return &memProjectRepo{projects: map[string]*domain.Project{}, issues: issues}
}

func (r *memProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *memProjectRepo) CreateFromIssue(ctx context.Context, project *domain.Project, issueID string) error {
	if err := r.Create(ctx, project); err != nil {
		return err
	}
	return r.issues.UpdateStatus(ctx, issueID, domain.IssueStatusInProgress)
}

func (r *memProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	project.UpdatedAt = time.Now()
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project, ok := r.projects[id]; ok {
		clone := *project
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memProjectRepo) ListAll(ctx context.Context) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, project := range r.projects {
		out = append(out, *project)
	}
	return out, nil
}

func (r *memProjectRepo) ListByOrganization(ctx context.Context, orgID string) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, project := range r.projects {
		if project.OrganizationID == orgID {
			out = append(out, *project)
		}
	}
	return out, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
}

func (r *memCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *memCommentRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, comment := range r.comments {
		if comment.ProjectID == projectID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type memVolunteerRepo struct {
	mu      sync.Mutex
	entries []domain.VolunteerMembership
}

func (r *memVolunteerRepo) Create(ctx context.Context, membership *domain.VolunteerMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.ProjectID == membership.ProjectID && existing.VolunteerID == membership.VolunteerID {
			return uniqueViolation()
		}
	}
	membership.ID = uuid.NewString()
	membership.JoinedAt = time.Now()
	r.entries = append(r.entries, *membership)
	return nil
}

func (r *memVolunteerRepo) ListByProject(ctx context.Context, projectID string) ([]domain.VolunteerMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VolunteerMembership
	for _, entry := range r.entries {
		if entry.ProjectID == projectID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memVolunteerRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	entries, _ := r.ListByProject(ctx, projectID)
	return len(entries), nil
}

type memEventRepo struct {
	mu      sync.Mutex
	entries []domain.ProjectEvent
}

func (r *memEventRepo) Create(ctx context.Context, event *domain.ProjectEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()
	r.entries = append(r.entries, *event)
	return nil
}

func (r *memEventRepo) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ProjectEvent
	for _, entry := range r.entries {
		if entry.ProjectID == projectID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type memContributionRepo struct {
	mu      sync.Mutex
	entries []domain.Contribution
}

func (r *memContributionRepo) Create(ctx context.Context, contribution *domain.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contribution.ID = uuid.NewString()
	contribution.CreatedAt = time.Now()
	r.entries = append(r.entries, *contribution)
	return nil
}

func (r *memContributionRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Contribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contribution
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].VolunteerID == volunteerID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

// capturingDispatcher records published events for assertions.
type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *capturingDispatcher) captured(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
