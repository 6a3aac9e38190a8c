package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/connect4change/platform/internal/api/http/handlers"
	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/config"
	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/observability"
	"github.com/connect4change/platform/internal/persistence"
	"github.com/connect4change/platform/internal/service"
)

type fakeUsers struct {
	byID map[string]*domain.User
}

func (r *fakeUsers) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUsers) Update(ctx context.Context, user *domain.User) error {
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := r.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeIssues struct {
	byID map[string]*domain.Issue
}

func (r *fakeIssues) Create(ctx context.Context, issue *domain.Issue) error {
	issue.ID = uuid.NewString()
	issue.CreatedAt = time.Now()
	clone := *issue
	r.byID[issue.ID] = &clone
	return nil
}

func (r *fakeIssues) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	if issue, ok := r.byID[id]; ok {
		clone := *issue
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeIssues) ListOpen(ctx context.Context) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range r.byID {
		if issue.Status != domain.IssueStatusInProgress {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (r *fakeIssues) ListByReporter(ctx context.Context, reporterID string) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range r.byID {
		if issue.ReporterID == reporterID {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (r *fakeIssues) FindNear(ctx context.Context, point domain.Point, radiusMeters float64) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range r.byID {
		if point.DistanceMeters(issue.Location) <= radiusMeters {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (r *fakeIssues) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error {
	issue, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	issue.Status = status
	return nil
}

type fakeProjects struct {
	byID   map[string]*domain.Project
	issues *fakeIssues
}

func (r *fakeProjects) Create(ctx context.Context, project *domain.Project) error {
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()
	clone := *project
	r.byID[project.ID] = &clone
	return nil
}

func (r *fakeProjects) CreateFromIssue(ctx context.Context, project *domain.Project, issueID string) error {
	if err := r.Create(ctx, project); err != nil {
		return err
	}
	return r.issues.UpdateStatus(ctx, issueID, domain.IssueStatusInProgress)
}

func (r *fakeProjects) Update(ctx context.Context, project *domain.Project) error {
	clone := *project
	r.byID[project.ID] = &clone
	return nil
}

func (r *fakeProjects) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if project, ok := r.byID[id]; ok {
		clone := *project
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProjects) ListAll(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	for _, project := range r.byID {
		out = append(out, *project)
	}
	return out, nil
}

func (r *fakeProjects) ListByOrganization(ctx context.Context, orgID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, project := range r.byID {
		if project.OrganizationID == orgID {
			out = append(out, *project)
		}
	}
	return out, nil
}

type fakeComments struct{ entries []domain.Comment }

func (r *fakeComments) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()
	r.entries = append(r.entries, *comment)
	return nil
}

func (r *fakeComments) ListByProject(ctx context.Context, projectID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, comment := range r.entries {
		if comment.ProjectID == projectID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeVolunteers struct{ entries []domain.VolunteerMembership }

func (r *fakeVolunteers) Create(ctx context.Context, m *domain.VolunteerMembership) error {
	m.ID = uuid.NewString()
	m.JoinedAt = time.Now()
	r.entries = append(r.entries, *m)
	return nil
}

func (r *fakeVolunteers) ListByProject(ctx context.Context, projectID string) ([]domain.VolunteerMembership, error) {
	var out []domain.VolunteerMembership
	for _, entry := range r.entries {
		if entry.ProjectID == projectID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeVolunteers) CountByProject(ctx context.Context, projectID string) (int, error) {
	entries, _ := r.ListByProject(ctx, projectID)
	return len(entries), nil
}

type fakeProjectEvents struct{ entries []domain.ProjectEvent }

func (r *fakeProjectEvents) Create(ctx context.Context, event *domain.ProjectEvent) error {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()
	r.entries = append(r.entries, *event)
	return nil
}

func (r *fakeProjectEvents) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectEvent, error) {
	var out []domain.ProjectEvent
	for _, entry := range r.entries {
		if entry.ProjectID == projectID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeContributions struct{ entries []domain.Contribution }

func (r *fakeContributions) Create(ctx context.Context, contribution *domain.Contribution) error {
	contribution.ID = uuid.NewString()
	contribution.CreatedAt = time.Now()
	r.entries = append(r.entries, *contribution)
	return nil
}

func (r *fakeContributions) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Contribution, error) {
	var out []domain.Contribution
	for _, entry := range r.entries {
		if entry.VolunteerID == volunteerID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4},
		Geo:  config.GeoConfig{DefaultRadiusKm: 10, MaxRadiusKm: 500},
	}

	users := &fakeUsers{byID: map[string]*domain.User{}}
	issues := &fakeIssues{byID: map[string]*domain.Issue{}}
	projects := &fakeProjects{byID: map[string]*domain.Project{}, issues: issues}

	authService := service.NewAuthService(cfg, users)
	userService := service.NewUserService(users)
	issueService := service.NewIssueService(issues, nil, cfg.Geo)
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo:   projects,
		IssueRepo:     issues,
		CommentRepo:   &fakeComments{},
		VolunteerRepo: &fakeVolunteers{},
		EventRepo:     &fakeProjectEvents{},
		UserRepo:      users,
	})
	contributionService := service.NewContributionService(&fakeContributions{}, projects, users, nil)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Users:          handlers.NewUsersHandler(authService, userService),
		Issues:         handlers.NewIssuesHandler(issueService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Contributions:  handlers.NewContributionsHandler(contributionService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp, decoded
}

func registerAccount(t *testing.T, app *fiber.App, username, email string, role domain.Role) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/auth/register", "", map[string]any{
		"username": username,
		"email":    email,
		"password": "hunter22",
		"role":     role,
		"location": map[string]any{"lng": 77.59, "lat": 12.97},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %v", username, resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func TestRegisterLoginAndMe(t *testing.T) {
	app := setupApp(t)

	registerAccount(t, app, "asha", "asha@example.org", domain.RoleVolunteer)

	resp, body := doJSON(t, app, "POST", "/auth/login", "", map[string]any{
		"email":    "asha@example.org",
		"password": "hunter22",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d, body %v", resp.StatusCode, body)
	}
	token := body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)

	resp, body = doJSON(t, app, "GET", "/api/users/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d, body %v", resp.StatusCode, body)
	}
	if got := body["data"].(map[string]any)["username"]; got != "asha" {
		t.Errorf("me username = %v, want asha", got)
	}
}

func TestLoginFailureEnvelope(t *testing.T) {
	app := setupApp(t)
	registerAccount(t, app, "asha", "asha@example.org", domain.RoleVolunteer)

	resp, body := doJSON(t, app, "POST", "/auth/login", "", map[string]any{
		"email":    "asha@example.org",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "UNAUTHORIZED" {
		t.Errorf("error code = %v", errObj["code"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/users/me", "/api/issues/mine", "/api/contributions/mine"} {
		resp, _ := doJSON(t, app, "GET", path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d, want 401", path, resp.StatusCode)
		}
	}

	resp, _ := doJSON(t, app, "GET", "/api/users/me", "not-a-real-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", resp.StatusCode)
	}
}

func TestIssueToProjectFlow(t *testing.T) {
	app := setupApp(t)

	volToken := registerAccount(t, app, "asha", "asha@example.org", domain.RoleVolunteer)
	orgToken := registerAccount(t, app, "green-earth", "org@example.org", domain.RoleNgo)

	resp, body := doJSON(t, app, "POST", "/api/issues", volToken, map[string]any{
		"title":       "Flooded Playground",
		"description": "Standing water after every rain, kids cannot use the field.",
		"category":    "Infrastructure",
		"location":    map[string]any{"lng": 77.59, "lat": 12.97},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create issue: status %d, body %v", resp.StatusCode, body)
	}
	issueID := body["data"].(map[string]any)["id"].(string)

	// volunteers cannot convert
	resp, _ = doJSON(t, app, "POST", "/api/projects/from-issue/"+issueID, volToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("volunteer convert: status %d, want 403", resp.StatusCode)
	}

	resp, body = doJSON(t, app, "POST", "/api/projects/from-issue/"+issueID, orgToken, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("convert: status %d, body %v", resp.StatusCode, body)
	}
	project := body["data"].(map[string]any)
	if project["title"] != "Flooded Playground" {
		t.Errorf("project title = %v", project["title"])
	}
	projectID := project["id"].(string)

	// the converted issue drops out of the open feed
	resp, body = doJSON(t, app, "GET", "/api/issues", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list issues: status %d", resp.StatusCode)
	}
	if data, ok := body["data"].([]any); ok {
		for _, item := range data {
			if item.(map[string]any)["id"] == issueID {
				t.Error("converted issue still listed as open")
			}
		}
	}

	resp, body = doJSON(t, app, "POST", fmt.Sprintf("/api/projects/%s/join", projectID), volToken, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("join: status %d, body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, app, "GET", "/api/projects/"+projectID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("project detail: status %d", resp.StatusCode)
	}
	detail := body["data"].(map[string]any)
	if volunteers, ok := detail["volunteers"].([]any); !ok || len(volunteers) != 1 {
		t.Errorf("detail volunteers = %v, want 1 entry", detail["volunteers"])
	}
}

func TestNearbyQueryValidation(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, "GET", "/api/issues/nearby?lat=abc&lng=77.59", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["error"].(map[string]any)["code"] != "VALIDATION_FAILED" {
		t.Errorf("error payload = %v", body)
	}

	resp, _ = doJSON(t, app, "GET", "/api/issues/nearby?lat=12.97&lng=77.59&radius=5", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("valid nearby query: status %d, want 200", resp.StatusCode)
	}
}

func TestHealthLive(t *testing.T) {
	app := setupApp(t)
	resp, body := doJSON(t, app, "GET", "/health/live", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "alive" {
		t.Errorf("body = %v", body)
	}
}
