package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-copilot/internal/api/dto"
	"github.com/spec-kit/support-copilot/internal/service"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// AnalysisHandler manages triage pipeline endpoints.
type AnalysisHandler struct {
	service *service.AnalysisService
}

// NewAnalysisHandler constructs handler.
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: analysisService}
}

// AnalyzeIssue POST /issues/analyze.
func (h *AnalysisHandler) AnalyzeIssue(c *fiber.Ctx) error {
	var req dto.AnalyzeIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tags, err := dto.TagsFromJSON(req.Tags)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	result, err := h.service.AnalyzeIssue(c.UserContext(), service.AnalyzeInput{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ProductArea: req.ProductArea,
		Tags:        tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAnalysisResponse(result)})
}

// GetAnalysis GET /issues/:id/analysis.
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	result, err := h.service.GetAnalysis(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalysisResponse(result)})
}

// SimilarIssues GET /issues/:id/similar.
func (h *AnalysisHandler) SimilarIssues(c *fiber.Ctx) error {
	matches, err := h.service.SimilarIssues(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SimilarIssueResponse, 0, len(matches))
	for _, match := range matches {
		items = append(items, dto.NewSimilarIssueResponse(match))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CustomerHistory GET /customers/:id/history.
func (h *AnalysisHandler) CustomerHistory(c *fiber.Ctx) error {
	history, err := h.service.CustomerHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerHistoryResponse(history)})
}
