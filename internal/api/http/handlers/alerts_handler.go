package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-copilot/internal/api/dto"
	"github.com/spec-kit/support-copilot/internal/auth"
	"github.com/spec-kit/support-copilot/internal/service"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// AlertsHandler manages critical alert endpoints.
type AlertsHandler struct {
	service *service.AlertService
}

// NewAlertsHandler constructs handler.
func NewAlertsHandler(alertService *service.AlertService) *AlertsHandler {
	return &AlertsHandler{service: alertService}
}

// ListActive GET /alerts.
func (h *AlertsHandler) ListActive(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	views, err := h.service.ListActive(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ActiveAlertResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.NewActiveAlertResponse(view))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Acknowledge POST /alerts/:id/acknowledge.
func (h *AlertsHandler) Acknowledge(c *fiber.Ctx) error {
	var req dto.AcknowledgeAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	acknowledgedBy := strings.TrimSpace(req.AcknowledgedBy)
	if acknowledgedBy == "" {
		if principal, ok := auth.PrincipalFromContext(c); ok && principal.Executive != nil {
			acknowledgedBy = principal.Executive.Name
		}
	}

	alert, err := h.service.Acknowledge(c.UserContext(), c.Params("id"), acknowledgedBy)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAlertResponse(alert)})
}
