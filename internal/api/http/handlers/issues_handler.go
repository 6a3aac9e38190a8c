package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/connect4change/platform/internal/api/dto"
	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/service"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// IssuesHandler manages issue reporting endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// Create handles POST /api/issues.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.Create(c.Context(), principal.Caller(), service.IssueCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewIssueResponse(issue)})
}

// ListOpen handles GET /api/issues (public).
func (h *IssuesHandler) ListOpen(c *fiber.Ctx) error {
	issues, err := h.service.ListOpen(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueResponses(issues)})
}

// ListMine handles GET /api/issues/mine.
func (h *IssuesHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issues, err := h.service.ListByReporter(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueResponses(issues)})
}

// Nearby handles GET /api/issues/nearby?lat=..&lng=..&radius=.. (public).
// Radius is kilometers; when omitted a default applies.
func (h *IssuesHandler) Nearby(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return apperrors.NewValidationError("lat must be a number", nil)
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return apperrors.NewValidationError("lng must be a number", nil)
	}

	var radiusKm *float64
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperrors.NewValidationError("radius must be a number", nil)
		}
		radiusKm = &parsed
	}

	issues, err := h.service.FindNear(c.Context(), domain.Point{Lng: lng, Lat: lat}, radiusKm)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueResponses(issues)})
}

// Review handles POST /api/issues/:id/review.
func (h *IssuesHandler) Review(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReviewIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.Review(c.Context(), principal.Caller(), c.Params("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Status}})
}
