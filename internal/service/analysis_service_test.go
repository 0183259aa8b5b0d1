package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-copilot/internal/cache"
	"github.com/spec-kit/support-copilot/internal/config"
	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/events"
	"github.com/spec-kit/support-copilot/internal/llm"
	"github.com/spec-kit/support-copilot/internal/repository"
	"github.com/spec-kit/support-copilot/internal/triage"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

type fakeIssueRepo struct {
	issues     map[string]*domain.Issue
	corpus     []domain.Issue
	stats      domain.IssueStats
	statsCalls int
	nextID     int
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: map[string]*domain.Issue{}}
}

func (r *fakeIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	r.nextID++
	issue.ID = "iss-" + strconv.Itoa(r.nextID)
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	copied := *issue
	r.issues[issue.ID] = &copied
	return nil
}

func (r *fakeIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *issue
	return &copied, nil
}

func (r *fakeIssueRepo) UpdateTriage(_ context.Context, id string, severity domain.Severity, priority int, tags domain.Tags) error {
	issue, ok := r.issues[id]
	if !ok {
		return pgx.ErrNoRows
	}
	issue.Severity = severity
	issue.Priority = priority
	issue.Tags = tags
	return nil
}

func (r *fakeIssueRepo) UpdateStatus(_ context.Context, issue *domain.Issue) error {
	stored, ok := r.issues[issue.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	*stored = *issue
	return nil
}

func (r *fakeIssueRepo) ListWithFilter(_ context.Context, _ repository.IssueFilter) ([]domain.Issue, error) {
	return nil, nil
}

func (r *fakeIssueRepo) ListResolvedCorpus(_ context.Context, _ int) ([]domain.Issue, error) {
	return r.corpus, nil
}

func (r *fakeIssueRepo) ListForDetection(_ context.Context, _ string, _ time.Time) ([]domain.Issue, error) {
	return nil, nil
}

func (r *fakeIssueRepo) CustomersWithActiveIssues(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *fakeIssueRepo) RecentByCustomer(_ context.Context, _ string, _ int) ([]domain.IssueRef, error) {
	return nil, nil
}

func (r *fakeIssueRepo) StatsForCustomer(_ context.Context, _ string) (domain.IssueStats, error) {
	r.statsCalls++
	return r.stats, nil
}

func (r *fakeIssueRepo) StatsByCustomer(_ context.Context) ([]domain.CustomerRiskRow, error) {
	return nil, nil
}

func (r *fakeIssueRepo) CountsBySeverity(_ context.Context, _ time.Time) (map[domain.Severity]int, error) {
	return nil, nil
}

func (r *fakeIssueRepo) CountsByStatus(_ context.Context) (map[domain.IssueStatus]int, error) {
	return nil, nil
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, _ *domain.Customer) error { return nil }

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, _ string) (*domain.Customer, error) {
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) List(_ context.Context, _, _ int) ([]domain.Customer, error) {
	return nil, nil
}

type fakeAlertRepo struct {
	created []domain.CriticalAlert
	active  []domain.CriticalAlert
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *domain.CriticalAlert) error {
	alert.ID = "alert-1"
	alert.CreatedAt = time.Now()
	r.created = append(r.created, *alert)
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, _ string) (*domain.CriticalAlert, error) {
	return nil, pgx.ErrNoRows
}

func (r *fakeAlertRepo) ListActive(_ context.Context, _, _ int) ([]domain.ActiveAlertView, error) {
	return nil, nil
}

func (r *fakeAlertRepo) ListActiveByCustomer(_ context.Context, _ string) ([]domain.CriticalAlert, error) {
	return r.active, nil
}

func (r *fakeAlertRepo) Acknowledge(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

type fakeSimilarityRepo struct {
	replaced map[string][]domain.SimilarIssue
}

func (r *fakeSimilarityRepo) ReplaceForIssue(_ context.Context, issueID string, matches []domain.SimilarIssue) error {
	if r.replaced == nil {
		r.replaced = map[string][]domain.SimilarIssue{}
	}
	r.replaced[issueID] = matches
	return nil
}

type fakeInsights struct {
	insights llm.Insights
	err      error
	calls    int
}

func (f *fakeInsights) GenerateInsights(_ context.Context, _, _ string, _ []llm.SimilarContext) (llm.Insights, error) {
	f.calls++
	return f.insights, f.err
}

type analysisFixture struct {
	service   *AnalysisService
	issues    *fakeIssueRepo
	customers *fakeCustomerRepo
	alerts    *fakeAlertRepo
	insights  *fakeInsights
}

func newAnalysisFixture() *analysisFixture {
	issues := newFakeIssueRepo()
	customers := &fakeCustomerRepo{customers: map[string]*domain.Customer{
		"cust-1": {ID: "cust-1", Name: "Acme", Tier: domain.TierEnterprise},
	}}
	alerts := &fakeAlertRepo{}
	insights := &fakeInsights{insights: llm.Insights{
		RootCause:          "rc",
		ResolutionApproach: "ra",
		EstimatedTimeHours: 4,
	}}

	svc := NewAnalysisService(AnalysisDependencies{
		IssueRepo:      issues,
		CustomerRepo:   customers,
		AlertRepo:      alerts,
		SimilarityRepo: &fakeSimilarityRepo{},
		Classifier:     triage.NewClassifier(nil, zap.NewNop()),
		Insights:       insights,
		Cache:          cache.New(nil, zap.NewNop()),
		Dispatcher:     events.NewInMemoryDispatcher(zap.NewNop()),
		Config: config.TriageConfig{
			SimilarityCorpusSize: 1000,
			SimilarityLimit:      5,
			CustomerHistoryTTL:   5 * time.Minute,
			IssueAnalysisTTL:     30 * time.Minute,
			SimilarIssuesTTL:     time.Hour,
		},
		Logger: zap.NewNop(),
	})
	return &analysisFixture{
		service:   svc,
		issues:    issues,
		customers: customers,
		alerts:    alerts,
		insights:  insights,
	}
}

func resolvedIssue(id, title, description string, hours float64) domain.Issue {
	resolved := time.Now().Add(-24 * time.Hour)
	return domain.Issue{
		ID:              id,
		CustomerID:      "cust-2",
		Title:           title,
		Description:     description,
		Severity:        domain.SeverityHigh,
		Status:          domain.IssueStatusResolved,
		ResolvedAt:      &resolved,
		ResolutionHours: &hours,
	}
}

func TestAnalyzeIssuePipeline(t *testing.T) {
	fix := newAnalysisFixture()
	fix.issues.corpus = []domain.Issue{
		resolvedIssue("old-1", "database outage in production", "production database outage with data loss", 6),
		resolvedIssue("old-2", "billing invoice question", "question about invoice totals", 2),
	}

	result, err := fix.service.AnalyzeIssue(context.Background(), AnalyzeInput{
		CustomerID:  "cust-1",
		Title:       "Production database outage",
		Description: "Complete outage with data loss in production database",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SeverityCritical, result.Severity)
	assert.NotEmpty(t, result.Issue.ID)
	assert.Equal(t, domain.IssueStatusOpen, result.Issue.Status)

	// Critical + Enterprise on a clean history: 5 + 4 + 2 = 11, capped.
	assert.Equal(t, 10, result.Priority)

	require.NotEmpty(t, result.SimilarIssues)
	assert.Equal(t, "old-1", result.SimilarIssues[0].IssueID)
	for _, match := range result.SimilarIssues {
		assert.Greater(t, match.SimilarityScore, triage.MinSimilarityScore)
	}

	assert.False(t, result.Degraded)
	assert.Equal(t, "rc", result.Insights.RootCause)
	assert.Contains(t, result.Recommendations, "Immediately assign to senior technical team")

	stored, getErr := fix.issues.GetByID(context.Background(), result.Issue.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.SeverityCritical, stored.Severity)
	assert.Equal(t, 10, stored.Priority)
}

func TestAnalyzeIssueValidation(t *testing.T) {
	fix := newAnalysisFixture()

	_, err := fix.service.AnalyzeIssue(context.Background(), AnalyzeInput{CustomerID: "cust-1"})

	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestAnalyzeIssueUnknownCustomer(t *testing.T) {
	fix := newAnalysisFixture()

	_, err := fix.service.AnalyzeIssue(context.Background(), AnalyzeInput{
		CustomerID:  "ghost",
		Title:       "t",
		Description: "d",
	})

	assert.True(t, apperrors.IsNotFound(err))
}

func TestAnalyzeIssueDegradesOnInsightFailure(t *testing.T) {
	fix := newAnalysisFixture()
	fix.insights.err = errors.New("model unreachable")

	result, err := fix.service.AnalyzeIssue(context.Background(), AnalyzeInput{
		CustomerID:  "cust-1",
		Title:       "Production outage",
		Description: "complete outage and data loss",
	})

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, llm.DefaultInsights(), result.Insights)
}

func TestCustomerHistoryCached(t *testing.T) {
	fix := newAnalysisFixture()
	fix.issues.stats = domain.IssueStats{TotalIssues: 12, CriticalIssues: 1}

	first, err := fix.service.CustomerHistory(context.Background(), "cust-1")
	require.NoError(t, err)
	second, err := fix.service.CustomerHistory(context.Background(), "cust-1")
	require.NoError(t, err)

	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, 1, fix.issues.statsCalls, "second read must come from cache")
	assert.Equal(t, domain.RiskMedium, first.RiskLevel)
}

func TestAnalyzeIssueInvalidatesCustomerCache(t *testing.T) {
	fix := newAnalysisFixture()

	_, err := fix.service.CustomerHistory(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Equal(t, 1, fix.issues.statsCalls)

	_, err = fix.service.AnalyzeIssue(context.Background(), AnalyzeInput{
		CustomerID:  "cust-1",
		Title:       "Production outage",
		Description: "complete outage and data loss",
	})
	require.NoError(t, err)

	before := fix.issues.statsCalls
	_, err = fix.service.CustomerHistory(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, before+1, fix.issues.statsCalls, "analysis must invalidate the cached history")
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("a", descriptionPreviewLen-1) + "résumé details follow"

	preview := truncate(text, descriptionPreviewLen)

	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, descriptionPreviewLen, utf8.RuneCountInString(preview)-len("..."))
	assert.True(t, strings.HasSuffix(preview, "..."))

	short := "brève description"
	assert.Equal(t, short, truncate(short, descriptionPreviewLen))

	exact := strings.Repeat("é", descriptionPreviewLen)
	assert.Equal(t, exact, truncate(exact, descriptionPreviewLen))
}

func TestGetAnalysisServedFromCache(t *testing.T) {
	fix := newAnalysisFixture()

	created, err := fix.service.AnalyzeIssue(context.Background(), AnalyzeInput{
		CustomerID:  "cust-1",
		Title:       "Production outage",
		Description: "complete outage and data loss",
	})
	require.NoError(t, err)

	fetched, err := fix.service.GetAnalysis(context.Background(), created.Issue.ID)
	require.NoError(t, err)

	assert.Equal(t, created.Severity, fetched.Severity)
	assert.Equal(t, created.Priority, fetched.Priority)
	assert.Equal(t, created.Insights, fetched.Insights)
	assert.Equal(t, 1, fix.insights.calls, "cached analysis must not re-consult the model")
}
