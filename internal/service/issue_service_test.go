package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-copilot/internal/cache"
	"github.com/spec-kit/support-copilot/internal/domain"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

func newIssueServiceFixture() (*IssueService, *fakeIssueRepo) {
	repo := newFakeIssueRepo()
	svc := NewIssueService(repo, cache.New(nil, zap.NewNop()), nil, zap.NewNop())
	return svc, repo
}

func seedIssue(t *testing.T, repo *fakeIssueRepo, age time.Duration) *domain.Issue {
	t.Helper()
	issue := &domain.Issue{
		CustomerID:  "cust-1",
		Title:       "Login broken",
		Description: "users cannot log in",
		Severity:    domain.SeverityHigh,
		Status:      domain.IssueStatusOpen,
		Priority:    7,
		Tags:        domain.Tags{},
	}
	require.NoError(t, repo.Create(context.Background(), issue))
	stored := repo.issues[issue.ID]
	stored.CreatedAt = time.Now().Add(-age)
	return issue
}

func TestUpdateStatusResolvesWithHours(t *testing.T) {
	svc, repo := newIssueServiceFixture()
	issue := seedIssue(t, repo, 10*time.Hour)

	rating := 4
	updated, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusResolved, &rating)

	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.NotNil(t, updated.ResolutionHours)
	assert.InDelta(t, 10, *updated.ResolutionHours, 0.1)
	require.NotNil(t, updated.SatisfactionRating)
	assert.Equal(t, 4, *updated.SatisfactionRating)
}

func TestUpdateStatusKeepsFirstResolutionStamp(t *testing.T) {
	svc, repo := newIssueServiceFixture()
	issue := seedIssue(t, repo, 10*time.Hour)

	first, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusResolved, nil)
	require.NoError(t, err)
	second, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusClosed, nil)
	require.NoError(t, err)

	assert.Equal(t, *first.ResolvedAt, *second.ResolvedAt)
	assert.Equal(t, *first.ResolutionHours, *second.ResolutionHours)
}

func TestUpdateStatusReopenClearsResolution(t *testing.T) {
	svc, repo := newIssueServiceFixture()
	issue := seedIssue(t, repo, 10*time.Hour)

	_, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusResolved, nil)
	require.NoError(t, err)
	reopened, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusInProgress, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.IssueStatusInProgress, reopened.Status)
	assert.Nil(t, reopened.ResolvedAt)
	assert.Nil(t, reopened.ResolutionHours)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, repo := newIssueServiceFixture()
	issue := seedIssue(t, repo, time.Hour)

	_, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatus("Archived"), nil)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateStatusRejectsOutOfRangeRating(t *testing.T) {
	svc, repo := newIssueServiceFixture()
	issue := seedIssue(t, repo, time.Hour)

	rating := 6
	_, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusResolved, &rating)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateStatusUnknownIssue(t *testing.T) {
	svc, _ := newIssueServiceFixture()

	_, err := svc.UpdateStatus(context.Background(), "missing", domain.IssueStatusResolved, nil)

	assert.True(t, apperrors.IsNotFound(err))
}

func TestListRejectsUnknownSeverity(t *testing.T) {
	svc, _ := newIssueServiceFixture()

	_, err := svc.List(context.Background(), IssueFilter{Severities: []domain.Severity{"Catastrophic"}})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}
