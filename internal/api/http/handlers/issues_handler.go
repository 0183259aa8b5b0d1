package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-copilot/internal/api/dto"
	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/service"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// IssuesHandler manages issue listing and lifecycle endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// ListIssues GET /issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	filter := parseIssueQuery(c)
	issues, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.IssueSummary, 0, len(issues))
	for i := range issues {
		items = append(items, dto.NewIssueSummary(&issues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetIssue GET /issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	issue, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueDetail(issue)})
}

// UpdateStatus PUT /issues/:id/status.
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateIssueStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	issue, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.SatisfactionRating)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueDetail(issue)})
}

func parseIssueQuery(c *fiber.Ctx) service.IssueFilter {
	filter := service.IssueFilter{}

	if customerID := strings.TrimSpace(c.Query("customer_id")); customerID != "" {
		filter.CustomerID = &customerID
	}
	for _, raw := range splitQuery(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.IssueStatus(raw))
	}
	for _, raw := range splitQuery(c.Query("severity")) {
		filter.Severities = append(filter.Severities, domain.Severity(raw))
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	if from, err := time.Parse(time.RFC3339, c.Query("created_from")); err == nil {
		filter.CreatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("created_to")); err == nil {
		filter.CreatedTo = &to
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filter.Offset = offset
	}
	return filter
}

func splitQuery(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
