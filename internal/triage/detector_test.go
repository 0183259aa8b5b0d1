package triage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-copilot/internal/domain"
)

const customerID = "cust-1"

func issueAt(id string, severity domain.Severity, status domain.IssueStatus, age time.Duration, now time.Time) domain.Issue {
	return domain.Issue{
		ID:         id,
		CustomerID: customerID,
		Severity:   severity,
		Status:     status,
		CreatedAt:  now.Add(-age),
	}
}

func TestDetectUnattendedCritical(t *testing.T) {
	now := time.Now()
	issues := []domain.Issue{
		issueAt("iss-1", domain.SeverityCritical, domain.IssueStatusOpen, 25*time.Hour, now),
	}

	alerts := DetectCriticalConditions(now, customerID, issues, nil)

	require.Len(t, alerts, 1)
	alert := alerts[0]
	assert.Equal(t, domain.AlertTypeUnattended, alert.Type)
	assert.Equal(t, domain.SeverityHigh, alert.Severity)
	assert.Equal(t, domain.AlertStatusActive, alert.Status)
	require.NotNil(t, alert.IssueID)
	assert.Equal(t, "iss-1", *alert.IssueID)
	assert.Equal(t, "Critical issue #iss-1 has been unattended for 25 hours", alert.Message)
}

func TestDetectUnattendedBoundary(t *testing.T) {
	now := time.Now()

	fresh := []domain.Issue{
		issueAt("iss-1", domain.SeverityCritical, domain.IssueStatusOpen, 23*time.Hour, now),
	}
	assert.Empty(t, DetectCriticalConditions(now, customerID, fresh, nil))

	stale := []domain.Issue{
		issueAt("iss-1", domain.SeverityCritical, domain.IssueStatusInProgress, 25*time.Hour, now),
	}
	assert.Len(t, DetectCriticalConditions(now, customerID, stale, nil), 1)
}

func TestDetectIgnoresInactiveIssues(t *testing.T) {
	now := time.Now()
	issues := []domain.Issue{
		issueAt("iss-1", domain.SeverityCritical, domain.IssueStatusResolved, 48*time.Hour, now),
		issueAt("iss-2", domain.SeverityCritical, domain.IssueStatusClosed, 48*time.Hour, now),
	}

	assert.Empty(t, DetectCriticalConditions(now, customerID, issues, nil))
}

func TestDetectMultipleHighSeverity(t *testing.T) {
	now := time.Now()

	two := []domain.Issue{
		issueAt("iss-1", domain.SeverityHigh, domain.IssueStatusOpen, time.Hour, now),
		issueAt("iss-2", domain.SeverityCritical, domain.IssueStatusOpen, 2*time.Hour, now),
	}
	assert.Empty(t, DetectCriticalConditions(now, customerID, two, nil))

	three := append(two,
		issueAt("iss-3", domain.SeverityHigh, domain.IssueStatusInProgress, 3*time.Hour, now))
	alerts := DetectCriticalConditions(now, customerID, three, nil)

	require.Len(t, alerts, 1)
	alert := alerts[0]
	assert.Equal(t, domain.AlertTypeMultipleHighSeverity, alert.Type)
	assert.Nil(t, alert.IssueID)
	assert.Equal(t, customerID, alert.CustomerID)
	assert.Equal(t, "Customer has 3 high-severity issues in the last 7 days", alert.Message)
}

func TestDetectHighSeverityWindowExcludesOld(t *testing.T) {
	now := time.Now()
	issues := []domain.Issue{
		issueAt("iss-1", domain.SeverityHigh, domain.IssueStatusOpen, time.Hour, now),
		issueAt("iss-2", domain.SeverityHigh, domain.IssueStatusOpen, 2*time.Hour, now),
		issueAt("iss-3", domain.SeverityHigh, domain.IssueStatusOpen, 8*24*time.Hour, now),
	}

	assert.Empty(t, DetectCriticalConditions(now, customerID, issues, nil))
}

func TestDetectSkipsCoveredConditions(t *testing.T) {
	now := time.Now()
	issueID := "iss-1"
	issues := []domain.Issue{
		issueAt(issueID, domain.SeverityCritical, domain.IssueStatusOpen, 30*time.Hour, now),
		issueAt("iss-2", domain.SeverityHigh, domain.IssueStatusOpen, time.Hour, now),
		issueAt("iss-3", domain.SeverityHigh, domain.IssueStatusOpen, time.Hour, now),
	}
	active := []domain.CriticalAlert{
		{
			IssueID:    &issueID,
			CustomerID: customerID,
			Type:       domain.AlertTypeUnattended,
			Status:     domain.AlertStatusActive,
		},
		{
			CustomerID: customerID,
			Type:       domain.AlertTypeMultipleHighSeverity,
			Status:     domain.AlertStatusActive,
		},
	}

	assert.Empty(t, DetectCriticalConditions(now, customerID, issues, active))
}

func TestDetectAcknowledgedAlertsDoNotSuppress(t *testing.T) {
	now := time.Now()
	issueID := "iss-1"
	issues := []domain.Issue{
		issueAt(issueID, domain.SeverityCritical, domain.IssueStatusOpen, 30*time.Hour, now),
	}
	acknowledged := []domain.CriticalAlert{
		{
			IssueID:    &issueID,
			CustomerID: customerID,
			Type:       domain.AlertTypeUnattended,
			Status:     domain.AlertStatusAcknowledged,
		},
	}

	alerts := DetectCriticalConditions(now, customerID, issues, acknowledged)
	assert.Len(t, alerts, 1)
}

func TestDetectManyConditionsAtOnce(t *testing.T) {
	now := time.Now()
	issues := []domain.Issue{
		issueAt("iss-1", domain.SeverityCritical, domain.IssueStatusOpen, 26*time.Hour, now),
		issueAt("iss-2", domain.SeverityCritical, domain.IssueStatusOpen, 48*time.Hour, now),
		issueAt("iss-3", domain.SeverityHigh, domain.IssueStatusOpen, time.Hour, now),
	}

	alerts := DetectCriticalConditions(now, customerID, issues, nil)

	// two unattended alerts plus the customer-scoped cluster alert
	require.Len(t, alerts, 3)
	types := make(map[domain.AlertType]int)
	for _, alert := range alerts {
		types[alert.Type]++
	}
	assert.Equal(t, 2, types[domain.AlertTypeUnattended])
	assert.Equal(t, 1, types[domain.AlertTypeMultipleHighSeverity])
}

func TestRecommendations(t *testing.T) {
	similar := []domain.SimilarIssue{
		{IssueID: "a", ResolutionHours: 4},
		{IssueID: "b", ResolutionHours: 8},
		{IssueID: "c", ResolutionHours: 6},
	}

	recs := Recommend(domain.SeverityCritical, similar, domain.RiskHigh)

	assert.Contains(t, recs, "Immediately assign to senior technical team")
	assert.Contains(t, recs, fmt.Sprintf("Based on similar issues, expected resolution time: %.1f hours", 6.0))
	assert.Contains(t, recs, "Review knowledge base articles from similar resolved issues")
	assert.Contains(t, recs, "Consider proactive communication")
}

func TestRecommendationsNormalNoSimilar(t *testing.T) {
	assert.Empty(t, Recommend(domain.SeverityNormal, nil, domain.RiskLow))
}
