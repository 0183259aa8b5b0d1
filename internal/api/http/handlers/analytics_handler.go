package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-copilot/internal/service"
)

// AnalyticsHandler serves dashboard views.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Dashboard GET /analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// RiskReport GET /analytics/risk-report.
func (h *AnalyticsHandler) RiskReport(c *fiber.Ctx) error {
	rows, err := h.service.RiskReport(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}
