package triage

import "github.com/spec-kit/support-copilot/internal/domain"

var severityPriority = map[domain.Severity]int{
	domain.SeverityCritical: 4,
	domain.SeverityHigh:     3,
	domain.SeverityNormal:   0,
	domain.SeverityLow:      -2,
}

var tierPriority = map[domain.CustomerTier]int{
	domain.TierEnterprise: 2,
	domain.TierPremium:    1,
	domain.TierBasic:      0,
}

var riskPriority = map[domain.RiskLevel]int{
	domain.RiskHigh:   2,
	domain.RiskMedium: 1,
	domain.RiskLow:    0,
}

// PriorityScore combines severity, customer tier, history risk level and
// similarity-set size into a priority in [1, 10]. A well-precedented issue
// (more than three similar resolved issues) is presumed easier and loses a
// point.
func PriorityScore(severity domain.Severity, tier domain.CustomerTier, risk domain.RiskLevel, similarCount int) int {
	score := 5
	score += severityPriority[severity]
	score += tierPriority[tier]
	score += riskPriority[risk]
	if similarCount > 3 {
		score--
	}
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
