package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/connect4change/platform/internal/api/dto"
	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/service"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// ContributionsHandler serves the volunteer participation ledger.
type ContributionsHandler struct {
	service *service.ContributionService
}

// NewContributionsHandler constructs handler.
func NewContributionsHandler(contributionService *service.ContributionService) *ContributionsHandler {
	return &ContributionsHandler{service: contributionService}
}

// Record handles POST /api/contributions.
func (h *ContributionsHandler) Record(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RecordContributionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	contribution, err := h.service.Record(c.Context(), principal.Caller(), service.ContributionInput{
		ProjectID:   req.ProjectID,
		Hours:       req.Hours,
		Description: req.Description,
		Date:        req.Date,
		Skills:      req.Skills,
		Impact:      req.Impact,
		Community:   req.Community,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewContributionResponse(contribution)})
}

// ListMine handles GET /api/contributions/mine.
func (h *ContributionsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.service.ListByVolunteer(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewContributionResponses(entries)})
}
