package dto

import (
	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/llm"
	"github.com/spec-kit/support-copilot/internal/service"
)

// AnalysisResponse is the full triage outcome for one issue.
type AnalysisResponse struct {
	Issue           IssueDetail            `json:"issue"`
	Severity        domain.Severity        `json:"severity"`
	Priority        int                    `json:"priority"`
	RiskScore       float64                `json:"risk_score"`
	RiskLevel       domain.RiskLevel       `json:"risk_level"`
	SimilarIssues   []SimilarIssueResponse `json:"similar_issues"`
	Alerts          []AlertResponse        `json:"alerts"`
	Insights        llm.Insights           `json:"insights"`
	Recommendations []string               `json:"recommendations"`
	Degraded        bool                   `json:"degraded"`
}

// NewAnalysisResponse maps a pipeline result.
func NewAnalysisResponse(result *service.AnalysisResult) AnalysisResponse {
	similar := make([]SimilarIssueResponse, 0, len(result.SimilarIssues))
	for _, match := range result.SimilarIssues {
		similar = append(similar, NewSimilarIssueResponse(match))
	}
	alerts := make([]AlertResponse, 0, len(result.Alerts))
	for i := range result.Alerts {
		alerts = append(alerts, NewAlertResponse(&result.Alerts[i]))
	}
	return AnalysisResponse{
		Issue:           NewIssueDetail(&result.Issue),
		Severity:        result.Severity,
		Priority:        result.Priority,
		RiskScore:       result.RiskScore,
		RiskLevel:       result.RiskLevel,
		SimilarIssues:   similar,
		Alerts:          alerts,
		Insights:        result.Insights,
		Recommendations: result.Recommendations,
		Degraded:        result.Degraded,
	}
}
