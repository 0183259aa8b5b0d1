package triage

import (
	"fmt"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// Recommend produces actionable guidance from the analysis outputs.
func Recommend(severity domain.Severity, similar []domain.SimilarIssue, risk domain.RiskLevel) []string {
	var recs []string

	switch severity {
	case domain.SeverityCritical:
		recs = append(recs,
			"Immediately assign to senior technical team",
			"Notify customer within 15 minutes",
			"Set up war room if needed",
			"Prepare executive escalation path",
		)
	case domain.SeverityHigh:
		recs = append(recs,
			"Assign to experienced support engineer",
			"Respond to customer within 1 hour",
			"Monitor progress every 2 hours",
		)
	}

	if len(similar) > 0 {
		var total float64
		for _, s := range similar {
			total += s.ResolutionHours
		}
		mean := total / float64(len(similar))
		recs = append(recs, fmt.Sprintf("Based on similar issues, expected resolution time: %.1f hours", mean))
		if len(similar) >= 3 {
			recs = append(recs, "Review knowledge base articles from similar resolved issues")
		}
	}

	if risk == domain.RiskHigh {
		recs = append(recs,
			"Consider proactive communication",
			"Involve account manager if available",
			"Document all interactions thoroughly",
		)
	}

	return recs
}
