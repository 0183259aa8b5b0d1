package dto

import (
	"time"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// AlertResponse response.
type AlertResponse struct {
	ID             string             `json:"id"`
	IssueID        *string            `json:"issue_id,omitempty"`
	CustomerID     string             `json:"customer_id"`
	Type           domain.AlertType   `json:"type"`
	Severity       domain.Severity    `json:"severity"`
	Message        string             `json:"message"`
	Status         domain.AlertStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	AcknowledgedAt *time.Time         `json:"acknowledged_at,omitempty"`
	AcknowledgedBy *string            `json:"acknowledged_by,omitempty"`
}

// ActiveAlertResponse includes issue and customer context.
type ActiveAlertResponse struct {
	AlertResponse
	IssueTitle    string          `json:"issue_title,omitempty"`
	IssueSeverity domain.Severity `json:"issue_severity,omitempty"`
	CustomerName  string          `json:"customer_name"`
	Company       string          `json:"company"`
}

// AcknowledgeAlertRequest payload.
type AcknowledgeAlertRequest struct {
	AcknowledgedBy string `json:"acknowledged_by"`
}

// NewAlertResponse maps a domain alert.
func NewAlertResponse(alert *domain.CriticalAlert) AlertResponse {
	return AlertResponse{
		ID:             alert.ID,
		IssueID:        alert.IssueID,
		CustomerID:     alert.CustomerID,
		Type:           alert.Type,
		Severity:       alert.Severity,
		Message:        alert.Message,
		Status:         alert.Status,
		CreatedAt:      alert.CreatedAt,
		AcknowledgedAt: alert.AcknowledgedAt,
		AcknowledgedBy: alert.AcknowledgedBy,
	}
}

// NewActiveAlertResponse maps an alert joined with its context.
func NewActiveAlertResponse(view domain.ActiveAlertView) ActiveAlertResponse {
	return ActiveAlertResponse{
		AlertResponse: NewAlertResponse(&view.Alert),
		IssueTitle:    view.IssueTitle,
		IssueSeverity: view.IssueSeverity,
		CustomerName:  view.CustomerName,
		Company:       view.Company,
	}
}
