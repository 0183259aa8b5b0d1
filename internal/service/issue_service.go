package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-copilot/internal/cache"
	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/events"
	"github.com/spec-kit/support-copilot/internal/repository"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// IssueService coordinates issue listing and lifecycle updates.
type IssueService struct {
	issues     repository.IssueRepository
	cache      *cache.Cache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewIssueService constructs the service.
func NewIssueService(issues repository.IssueRepository, cacheFacade *cache.Cache, dispatcher events.Dispatcher, logger *zap.Logger) *IssueService {
	return &IssueService{
		issues:     issues,
		cache:      cacheFacade,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// IssueFilter describes listing parameters accepted from callers.
type IssueFilter struct {
	CustomerID  *string
	Statuses    []domain.IssueStatus
	Severities  []domain.Severity
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// List returns issues matching the filter, newest first.
func (s *IssueService) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
		}
	}
	for _, sev := range filter.Severities {
		if !sev.Valid() {
			return nil, apperrors.NewValidationError("unknown severity", map[string]any{"severity": sev})
		}
	}
	issues, err := s.issues.ListWithFilter(ctx, repository.IssueFilter{
		CustomerID:  filter.CustomerID,
		Statuses:    filter.Statuses,
		Severities:  filter.Severities,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// Get fetches a single issue.
func (s *IssueService) Get(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("issue", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

// UpdateStatus moves an issue to a new status. Resolving stamps the
// resolution time and derives resolution hours from the issue age; an
// optional satisfaction rating may accompany resolution.
func (s *IssueService) UpdateStatus(ctx context.Context, id string, newStatus domain.IssueStatus, satisfaction *int) (*domain.Issue, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	if satisfaction != nil && (*satisfaction < 1 || *satisfaction > 5) {
		return nil, apperrors.NewValidationError("satisfaction rating out of range", map[string]any{"satisfaction_rating": *satisfaction})
	}

	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("issue", nil)
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := issue.Status
	issue.Status = newStatus

	switch newStatus {
	case domain.IssueStatusResolved, domain.IssueStatusClosed:
		if issue.ResolvedAt == nil {
			now := time.Now()
			hours := now.Sub(issue.CreatedAt).Hours()
			issue.ResolvedAt = &now
			issue.ResolutionHours = &hours
		}
		if satisfaction != nil {
			issue.SatisfactionRating = satisfaction
		}
	default:
		issue.ResolvedAt = nil
		issue.ResolutionHours = nil
	}

	if err := s.issues.UpdateStatus(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	// Resolution changes both the customer aggregate and any cached analysis.
	s.cache.Delete(ctx,
		cache.CustomerKey(issue.CustomerID),
		cache.IssueAnalysisKey(issue.ID))

	s.publish(ctx, events.Event{
		Type:       events.EventIssueStatusChanged,
		IssueID:    issue.ID,
		CustomerID: issue.CustomerID,
		Payload: events.IssueStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return issue, nil
}

func (s *IssueService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
