package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-copilot/internal/domain"
)

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name         string
		severity     domain.Severity
		tier         domain.CustomerTier
		risk         domain.RiskLevel
		similarCount int
		want         int
	}{
		{
			name:     "baseline normal basic low",
			severity: domain.SeverityNormal,
			tier:     domain.TierBasic,
			risk:     domain.RiskLow,
			want:     5,
		},
		{
			name:     "critical enterprise high caps at ten",
			severity: domain.SeverityCritical,
			tier:     domain.TierEnterprise,
			risk:     domain.RiskHigh,
			want:     10,
		},
		{
			name:         "well precedented issue loses a point",
			severity:     domain.SeverityHigh,
			tier:         domain.TierBasic,
			risk:         domain.RiskLow,
			similarCount: 4,
			want:         7,
		},
		{
			name:         "three similar issues do not reduce",
			severity:     domain.SeverityHigh,
			tier:         domain.TierBasic,
			risk:         domain.RiskLow,
			similarCount: 3,
			want:         8,
		},
		{
			name:     "low severity floors at one",
			severity: domain.SeverityLow,
			tier:     domain.TierBasic,
			risk:     domain.RiskLow,
			want:     3,
		},
		{
			name:     "premium tier adds one",
			severity: domain.SeverityNormal,
			tier:     domain.TierPremium,
			risk:     domain.RiskMedium,
			want:     7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriorityScore(tt.severity, tt.tier, tt.risk, tt.similarCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriorityScoreBounds(t *testing.T) {
	for _, severity := range domain.Severities() {
		for _, tier := range []domain.CustomerTier{domain.TierBasic, domain.TierPremium, domain.TierEnterprise} {
			for _, risk := range []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh} {
				for _, similar := range []int{0, 5} {
					got := PriorityScore(severity, tier, risk, similar)
					assert.GreaterOrEqual(t, got, 1)
					assert.LessOrEqual(t, got, 10)
				}
			}
		}
	}
}
