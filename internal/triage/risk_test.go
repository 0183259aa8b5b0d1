package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-copilot/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestHistoryRiskPolicyLevels(t *testing.T) {
	policy := HistoryRiskPolicy()

	tests := []struct {
		name      string
		stats     domain.IssueStats
		wantScore float64
		wantLevel domain.RiskLevel
	}{
		{
			name:      "empty history",
			stats:     domain.IssueStats{},
			wantScore: 0,
			wantLevel: domain.RiskLow,
		},
		{
			name:      "single critical pushes to medium",
			stats:     domain.IssueStats{TotalIssues: 4, CriticalIssues: 1},
			wantScore: 3,
			wantLevel: domain.RiskMedium,
		},
		{
			name: "heavy history reaches high",
			stats: domain.IssueStats{
				TotalIssues:      25,
				CriticalIssues:   2,
				HighIssues:       5,
				RecentIssues:     6,
				AvgResolutionHrs: 72,
			},
			wantScore: 10,
			wantLevel: domain.RiskHigh,
		},
		{
			name:      "boundary at high threshold",
			stats:     domain.IssueStats{TotalIssues: 11, CriticalIssues: 1, RecentIssues: 6},
			wantScore: 6,
			wantLevel: domain.RiskHigh,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := policy.Assess(tt.stats)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestDashboardRiskPolicyLevels(t *testing.T) {
	policy := DashboardRiskPolicy()

	tests := []struct {
		name      string
		stats     domain.IssueStats
		wantScore float64
		wantLevel domain.RiskLevel
	}{
		{
			name:      "empty account",
			stats:     domain.IssueStats{},
			wantScore: 0,
			wantLevel: domain.RiskLow,
		},
		{
			name:      "open issues weigh heavier",
			stats:     domain.IssueStats{TotalIssues: 4, OpenIssues: 3},
			wantScore: 4.5,
			wantLevel: domain.RiskMedium,
		},
		{
			name:      "low satisfaction raises score",
			stats:     domain.IssueStats{TotalIssues: 6, OpenIssues: 2, AvgSatisfaction: floatPtr(2.5)},
			wantScore: 6,
			wantLevel: domain.RiskMedium,
		},
		{
			name: "score caps at ten",
			stats: domain.IssueStats{
				TotalIssues:    30,
				CriticalIssues: 4,
				HighIssues:     6,
				OpenIssues:     10,
			},
			wantScore: 10,
			wantLevel: domain.RiskHigh,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := policy.Assess(tt.stats)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestRiskScoreMonotonicInCriticalIssues(t *testing.T) {
	for _, policy := range []RiskPolicy{HistoryRiskPolicy(), DashboardRiskPolicy()} {
		base := domain.IssueStats{TotalIssues: 8}
		prev := policy.Score(base)
		for criticals := 1; criticals <= 5; criticals++ {
			base.CriticalIssues = criticals
			base.TotalIssues = 8 + criticals
			score := policy.Score(base)
			assert.GreaterOrEqual(t, score, prev,
				"%s policy must not reward additional critical issues", policy.Name())
			prev = score
		}
	}
}

func TestRiskPolicyNamesDiffer(t *testing.T) {
	assert.NotEqual(t, HistoryRiskPolicy().Name(), DashboardRiskPolicy().Name())
}
