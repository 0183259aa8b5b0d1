package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/repository"
	"github.com/spec-kit/support-copilot/internal/triage"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// AnalyticsService builds operator dashboard views.
type AnalyticsService struct {
	issues repository.IssueRepository
	alerts repository.AlertRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(issues repository.IssueRepository, alerts repository.AlertRepository) *AnalyticsService {
	return &AnalyticsService{issues: issues, alerts: alerts}
}

// DashboardStats summarizes current workload.
type DashboardStats struct {
	IssuesByStatus    map[domain.IssueStatus]int `json:"issues_by_status"`
	RecentBySeverity  map[domain.Severity]int    `json:"recent_by_severity"`
	ActiveAlerts      int                        `json:"active_alerts"`
	HighRiskCustomers int                        `json:"high_risk_customers"`
}

// Dashboard aggregates issue counts and alert totals. Severity counts
// cover the last 30 days.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.issues.CountsByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	bySeverity, err := s.issues.CountsBySeverity(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	activeAlerts, err := s.alerts.ListActive(ctx, 1000, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	report, err := s.RiskReport(ctx)
	if err != nil {
		return nil, err
	}
	highRisk := 0
	for _, row := range report {
		if row.RiskLevel == domain.RiskHigh {
			highRisk++
		}
	}

	return &DashboardStats{
		IssuesByStatus:    byStatus,
		RecentBySeverity:  bySeverity,
		ActiveAlerts:      len(activeAlerts),
		HighRiskCustomers: highRisk,
	}, nil
}

// RiskReport scores every customer with the dashboard risk policy,
// highest risk first.
func (s *AnalyticsService) RiskReport(ctx context.Context) ([]domain.CustomerRiskRow, error) {
	rows, err := s.issues.StatsByCustomer(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	policy := triage.DashboardRiskPolicy()
	for i := range rows {
		rows[i].RiskScore, rows[i].RiskLevel = policy.Assess(rows[i].Stats)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RiskScore > rows[j].RiskScore
	})
	return rows, nil
}
