package triage

import (
	"fmt"
	"time"

	"github.com/spec-kit/support-copilot/internal/domain"
)

const (
	// UnattendedAge is how long a critical issue may sit in an active
	// status before an alert is raised.
	UnattendedAge = 24 * time.Hour
	// HighSeverityWindow bounds the lookback for the multiple-high check.
	HighSeverityWindow = 7 * 24 * time.Hour
	// HighSeverityCount is the minimum number of active Critical/High
	// issues in the window that raises the customer-scoped alert.
	HighSeverityCount = 3
)

// DetectCriticalConditions scans a customer's issues for unattended
// critical issues and clusters of recent high-severity issues, emitting
// alert records for each condition found. activeAlerts carries the
// customer's currently active alerts; a condition already covered by an
// active alert of the same type (and issue, for issue-scoped types) is not
// re-emitted. All alerts are created Active with severity High.
func DetectCriticalConditions(now time.Time, customerID string, issues []domain.Issue, activeAlerts []domain.CriticalAlert) []domain.CriticalAlert {
	var alerts []domain.CriticalAlert

	covered := map[string]struct{}{}
	for _, alert := range activeAlerts {
		if alert.Status != domain.AlertStatusActive {
			continue
		}
		covered[alertKey(alert.Type, alert.IssueID)] = struct{}{}
	}

	highSeverityRecent := 0
	for i := range issues {
		issue := &issues[i]
		if !issue.Status.Active() {
			continue
		}
		if issue.Severity.AtLeast(domain.SeverityHigh) && issue.Age(now) <= HighSeverityWindow {
			highSeverityRecent++
		}
		if issue.Severity != domain.SeverityCritical {
			continue
		}
		age := issue.Age(now)
		if age <= UnattendedAge {
			continue
		}
		issueID := issue.ID
		if _, ok := covered[alertKey(domain.AlertTypeUnattended, &issueID)]; ok {
			continue
		}
		hoursOpen := int(age.Hours())
		alerts = append(alerts, domain.CriticalAlert{
			IssueID:    &issueID,
			CustomerID: customerID,
			Type:       domain.AlertTypeUnattended,
			Severity:   domain.SeverityHigh,
			Status:     domain.AlertStatusActive,
			Message:    fmt.Sprintf("Critical issue #%s has been unattended for %d hours", issue.ID, hoursOpen),
			CreatedAt:  now,
		})
	}

	if highSeverityRecent >= HighSeverityCount {
		if _, ok := covered[alertKey(domain.AlertTypeMultipleHighSeverity, nil)]; !ok {
			alerts = append(alerts, domain.CriticalAlert{
				CustomerID: customerID,
				Type:       domain.AlertTypeMultipleHighSeverity,
				Severity:   domain.SeverityHigh,
				Status:     domain.AlertStatusActive,
				Message:    fmt.Sprintf("Customer has %d high-severity issues in the last 7 days", highSeverityRecent),
				CreatedAt:  now,
			})
		}
	}

	return alerts
}

func alertKey(alertType domain.AlertType, issueID *string) string {
	if issueID == nil {
		return string(alertType)
	}
	return string(alertType) + ":" + *issueID
}
