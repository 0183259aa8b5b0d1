package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/events"
	"github.com/spec-kit/support-copilot/internal/repository"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// AlertService coordinates alert listing and acknowledgement.
type AlertService struct {
	alerts     repository.AlertRepository
	dispatcher events.Dispatcher
}

// NewAlertService constructs the service.
func NewAlertService(alerts repository.AlertRepository, dispatcher events.Dispatcher) *AlertService {
	return &AlertService{alerts: alerts, dispatcher: dispatcher}
}

// ListActive returns active alerts with issue and customer context.
func (s *AlertService) ListActive(ctx context.Context, limit, offset int) ([]domain.ActiveAlertView, error) {
	views, err := s.alerts.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return views, nil
}

// Acknowledge marks an active alert as acknowledged by the given
// executive. Acknowledging a non-active alert is a conflict, not a repeat.
func (s *AlertService) Acknowledge(ctx context.Context, alertID, acknowledgedBy string) (*domain.CriticalAlert, error) {
	if strings.TrimSpace(acknowledgedBy) == "" {
		return nil, apperrors.NewValidationError("acknowledged_by required", nil)
	}

	if err := s.alerts.Acknowledge(ctx, alertID, acknowledgedBy, time.Now()); err != nil {
		if apperrors.IsNotFound(err) {
			// Distinguish a missing alert from one already handled.
			if existing, getErr := s.alerts.GetByID(ctx, alertID); getErr == nil {
				return nil, apperrors.NewConflict("alert is not active",
					map[string]any{"status": existing.Status})
			}
			return nil, apperrors.NewNotFound("alert", nil)
		}
		return nil, apperrors.MapError(err)
	}

	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventAlertAcknowledged,
			IssueID:    derefString(alert.IssueID),
			CustomerID: alert.CustomerID,
			Timestamp:  time.Now(),
			Payload: events.AlertAcknowledgedPayload{
				AlertID:        alert.ID,
				AcknowledgedBy: acknowledgedBy,
			},
		})
	}
	return alert, nil
}
