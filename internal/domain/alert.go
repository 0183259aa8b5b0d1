package domain

import "time"

// AlertType enumerates the conditions that raise critical alerts.
type AlertType string

const (
	AlertTypeUnattended         AlertType = "Unattended"
	AlertTypeEscalation         AlertType = "Escalation"
	AlertTypeSLABreach          AlertType = "SLA_Breach"
	AlertTypeCustomerEscalation AlertType = "Customer_Escalation"
	// AlertTypeMultipleHighSeverity is customer scoped rather than issue scoped.
	AlertTypeMultipleHighSeverity AlertType = "Multiple High Severity Issues"
)

// AlertStatus enumerates the alert lifecycle: Active -> Acknowledged ->
// (optionally) Resolved. Alerts never reopen.
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "Active"
	AlertStatusAcknowledged AlertStatus = "Acknowledged"
	AlertStatusResolved     AlertStatus = "Resolved"
)

// CriticalAlert records a condition requiring operator attention.
// Alerts are created Active with severity High regardless of the
// triggering issue's severity.
type CriticalAlert struct {
	ID             string
	IssueID        *string
	CustomerID     string
	Type           AlertType
	Severity       Severity
	Message        string
	Status         AlertStatus
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy *string
	ResolvedAt     *time.Time
}

// ActiveAlertView joins an alert with issue and customer context for
// operator dashboards.
type ActiveAlertView struct {
	Alert         CriticalAlert
	IssueTitle    string
	IssueSeverity Severity
	CustomerName  string
	Company       string
}
