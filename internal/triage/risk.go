package triage

import "github.com/spec-kit/support-copilot/internal/domain"

// RiskPolicy converts an issue-history aggregate into a bounded risk score
// and bucketed level. Two policies exist on purpose: the history policy
// answers "how risky is this customer right now" during triage, the
// dashboard policy answers "which accounts need review" in periodic
// reporting. Their weight tables and thresholds differ and must not be
// unified.
type RiskPolicy struct {
	name     string
	score    func(domain.IssueStats) float64
	highAt   float64
	mediumAt float64
}

// Name identifies the policy in logs and reports.
func (p RiskPolicy) Name() string { return p.name }

// Score computes the additive risk score, capped to [0, 10].
func (p RiskPolicy) Score(stats domain.IssueStats) float64 {
	score := p.score(stats)
	if score > 10 {
		return 10
	}
	if score < 0 {
		return 0
	}
	return score
}

// Level buckets a score into Low/Medium/High.
func (p RiskPolicy) Level(score float64) domain.RiskLevel {
	switch {
	case score >= p.highAt:
		return domain.RiskHigh
	case score >= p.mediumAt:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Assess scores and buckets in one step.
func (p RiskPolicy) Assess(stats domain.IssueStats) (float64, domain.RiskLevel) {
	score := p.Score(stats)
	return score, p.Level(score)
}

// HistoryRiskPolicy is the triage-time policy applied to a customer's
// history aggregate during issue analysis.
func HistoryRiskPolicy() RiskPolicy {
	return RiskPolicy{
		name:     "history",
		highAt:   6,
		mediumAt: 3,
		score: func(s domain.IssueStats) float64 {
			var score float64
			switch {
			case s.TotalIssues > 20:
				score += 2
			case s.TotalIssues > 10:
				score += 1
			}
			if s.CriticalIssues > 0 {
				score += 3
			}
			if s.HighIssues > 3 {
				score += 2
			}
			switch {
			case s.RecentIssues > 5:
				score += 2
			case s.RecentIssues > 2:
				score += 1
			}
			if s.AvgResolutionHrs > 48 {
				score += 2
			}
			return score
		},
	}
}

// DashboardRiskPolicy is the account-review policy used by the customer
// risk-analysis report. Severity contributes per issue rather than as a
// fixed bonus, and satisfaction lowers the bar.
func DashboardRiskPolicy() RiskPolicy {
	return RiskPolicy{
		name:     "dashboard",
		highAt:   7,
		mediumAt: 4,
		score: func(s domain.IssueStats) float64 {
			var score float64
			switch {
			case s.TotalIssues > 20:
				score += 3
			case s.TotalIssues > 10:
				score += 2
			case s.TotalIssues > 5:
				score += 1
			}
			score += float64(s.CriticalIssues)*2 + float64(s.HighIssues)*1
			score += float64(s.OpenIssues) * 1.5
			switch {
			case s.RecentIssues > 5:
				score += 2
			case s.RecentIssues > 2:
				score += 1
			}
			if s.AvgSatisfaction != nil {
				switch {
				case *s.AvgSatisfaction < 3.0:
					score += 2
				case *s.AvgSatisfaction < 4.0:
					score += 1
				}
			}
			if s.AvgResolutionHrs > 48 {
				score += 1
			}
			return score
		},
	}
}
