package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/connect4change/platform/internal/api/dto"
	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/service"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// ProjectsHandler manages project lifecycle endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// CreateFromIssue handles POST /api/projects/from-issue/:issueId.
func (h *ProjectsHandler) CreateFromIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ConvertIssueRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	overrides := service.ProjectOverrides{
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		ImageURL:         req.ImageURL,
		VolunteersNeeded: req.VolunteersNeeded,
		Skills:           req.Skills,
	}
	for _, event := range req.Events {
		overrides.Events = append(overrides.Events, service.ProjectEventInput{
			Title:         event.Title,
			Description:   event.Description,
			Date:          event.Date,
			Location:      event.Location,
			DurationHours: event.DurationHours,
		})
	}

	project, err := h.service.CreateFromIssue(c.Context(), principal.Caller(), c.Params("issueId"), overrides)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewProjectSummary(service.ProjectView{Project: *project}),
	})
}

// Create handles POST /api/projects (standalone).
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.CreateStandalone(c.Context(), principal.Caller(), service.ProjectCreateInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Location:         req.Location,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		ImageURL:         req.ImageURL,
		VolunteersNeeded: req.VolunteersNeeded,
		Skills:           req.Skills,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewProjectSummary(service.ProjectView{Project: *project}),
	})
}

// List handles GET /api/projects (public).
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	views, err := h.service.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectSummaries(views)})
}

// Get handles GET /api/projects/:id (public).
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectDetailResponse(detail)})
}

// ListByOrganization handles GET /api/projects/organization/:id (public).
func (h *ProjectsHandler) ListByOrganization(c *fiber.Ctx) error {
	views, err := h.service.ListByOrganization(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectSummaries(views)})
}

// AddComment handles POST /api/projects/:id/comments.
func (h *ProjectsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if _, err := h.service.AddComment(c.Context(), principal.Caller(), c.Params("id"), req.Text); err != nil {
		return err
	}

	// return the updated project so clients can refresh the thread
	detail, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectDetailResponse(detail)})
}

// Transition handles POST /api/projects/:id/status.
func (h *ProjectsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.TransitionStatus(c.Context(), principal.Caller(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectSummary(service.ProjectView{Project: *project})})
}

// Join handles POST /api/projects/:id/join.
func (h *ProjectsHandler) Join(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	membership, err := h.service.JoinAsVolunteer(c.Context(), principal.Caller(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":        membership.ID,
		"joined_at": membership.JoinedAt,
		"status":    membership.Status,
	}})
}

// ScheduleEvent handles POST /api/projects/:id/events.
func (h *ProjectsHandler) ScheduleEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ProjectEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	event, err := h.service.ScheduleEvent(c.Context(), principal.Caller(), c.Params("id"), service.ProjectEventInput{
		Title:         req.Title,
		Description:   req.Description,
		Date:          req.Date,
		Location:      req.Location,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ProjectEventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		Date:          event.Date,
		Location:      event.Location,
		DurationHours: event.DurationHours,
	}})
}
