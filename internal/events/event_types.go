package events

import (
	"time"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueAnalyzed      EventType = "issue_analyzed"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventAlertRaised        EventType = "alert_raised"
	EventAlertAcknowledged  EventType = "alert_acknowledged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IssueID    string      `json:"issue_id,omitempty"`
	CustomerID string      `json:"customer_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IssueAnalyzedPayload payload.
type IssueAnalyzedPayload struct {
	Severity     domain.Severity  `json:"severity"`
	Priority     int              `json:"priority"`
	RiskLevel    domain.RiskLevel `json:"risk_level"`
	SimilarCount int              `json:"similar_count"`
	AlertCount   int              `json:"alert_count"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}

// AlertRaisedPayload payload.
type AlertRaisedPayload struct {
	AlertID   string           `json:"alert_id"`
	AlertType domain.AlertType `json:"alert_type"`
	Message   string           `json:"message"`
}

// AlertAcknowledgedPayload payload.
type AlertAcknowledgedPayload struct {
	AlertID        string `json:"alert_id"`
	AcknowledgedBy string `json:"acknowledged_by"`
}
