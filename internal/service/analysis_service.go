package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
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

const descriptionPreviewLen = 200

// InsightsGenerator produces structured analysis from the model
// collaborator.
type InsightsGenerator interface {
	GenerateInsights(ctx context.Context, title, description string, similar []llm.SimilarContext) (llm.Insights, error)
}

// AnalysisService runs the triage pipeline over incoming issues.
type AnalysisService struct {
	issues       repository.IssueRepository
	customers    repository.CustomerRepository
	alerts       repository.AlertRepository
	similarities repository.SimilarityRepository
	classifier   *triage.Classifier
	insights     InsightsGenerator
	cache        *cache.Cache
	dispatcher   events.Dispatcher
	cfg          config.TriageConfig
	logger       *zap.Logger
}

// AnalysisDependencies bundles collaborators for the analysis service.
type AnalysisDependencies struct {
	IssueRepo      repository.IssueRepository
	CustomerRepo   repository.CustomerRepository
	AlertRepo      repository.AlertRepository
	SimilarityRepo repository.SimilarityRepository
	Classifier     *triage.Classifier
	Insights       InsightsGenerator
	Cache          *cache.Cache
	Dispatcher     events.Dispatcher
	Config         config.TriageConfig
	Logger         *zap.Logger
}

// NewAnalysisService constructs the service.
func NewAnalysisService(deps AnalysisDependencies) *AnalysisService {
	return &AnalysisService{
		issues:       deps.IssueRepo,
		customers:    deps.CustomerRepo,
		alerts:       deps.AlertRepo,
		similarities: deps.SimilarityRepo,
		classifier:   deps.Classifier,
		insights:     deps.Insights,
		cache:        deps.Cache,
		dispatcher:   deps.Dispatcher,
		cfg:          deps.Config,
		logger:       deps.Logger,
	}
}

// AnalyzeInput describes an incoming issue to triage.
type AnalyzeInput struct {
	CustomerID  string
	Title       string
	Description string
	Category    string
	ProductArea string
	Tags        domain.Tags
}

// AnalysisResult is the full outcome of one pipeline run.
type AnalysisResult struct {
	Issue           domain.Issue           `json:"issue"`
	Severity        domain.Severity        `json:"severity"`
	Priority        int                    `json:"priority"`
	RiskScore       float64                `json:"risk_score"`
	RiskLevel       domain.RiskLevel       `json:"risk_level"`
	SimilarIssues   []domain.SimilarIssue  `json:"similar_issues"`
	Alerts          []domain.CriticalAlert `json:"alerts"`
	Insights        llm.Insights           `json:"insights"`
	Recommendations []string               `json:"recommendations"`
	// Degraded is set when the model collaborator was unavailable and
	// fallback insights were substituted.
	Degraded bool `json:"degraded"`
}

// AnalyzeIssue runs the full triage pipeline: classify severity, persist
// the issue, rank similar resolved issues, detect critical conditions,
// generate insights, and score priority. Model collaborator failures
// degrade the result instead of failing the request.
func (s *AnalysisService) AnalyzeIssue(ctx context.Context, input AnalyzeInput) (*AnalysisResult, error) {
	if err := validateAnalyzeInput(input); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, apperrors.MapError(err)
	}

	history, err := s.CustomerHistory(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	severity := s.classifier.Classify(ctx, input.Title, input.Description)

	issue := &domain.Issue{
		CustomerID:  customer.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		ProductArea: strings.TrimSpace(input.ProductArea),
		Severity:    severity,
		Status:      domain.IssueStatusOpen,
		Priority:    5,
		Tags:        input.Tags,
	}
	if issue.Tags == nil {
		issue.Tags = domain.Tags{}
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	similar := s.rankSimilar(ctx, issue)

	alerts := s.detectAndPersistAlerts(ctx, customer.ID)

	insights, degraded := s.generateInsights(ctx, issue, similar)

	priority := triage.PriorityScore(severity, customer.Tier, history.RiskLevel, len(similar))
	issue.Priority = priority
	issue.Tags["auto_triaged"] = domain.BoolTag(true)
	issue.Tags["risk_level"] = domain.StringTag(string(history.RiskLevel))
	if err := s.issues.UpdateTriage(ctx, issue.ID, severity, priority, issue.Tags); err != nil {
		return nil, apperrors.MapError(err)
	}

	policy := triage.HistoryRiskPolicy()
	riskScore, riskLevel := policy.Assess(history.Stats)

	result := &AnalysisResult{
		Issue:           *issue,
		Severity:        severity,
		Priority:        priority,
		RiskScore:       riskScore,
		RiskLevel:       riskLevel,
		SimilarIssues:   similar,
		Alerts:          alerts,
		Insights:        insights,
		Recommendations: triage.Recommend(severity, similar, riskLevel),
		Degraded:        degraded,
	}

	s.cache.Set(ctx, cache.IssueAnalysisKey(issue.ID), result, s.cfg.IssueAnalysisTTL)
	// The new issue changes the customer's aggregate history.
	s.cache.Delete(ctx, cache.CustomerKey(customer.ID))

	s.publishEvent(ctx, events.Event{
		Type:       events.EventIssueAnalyzed,
		IssueID:    issue.ID,
		CustomerID: customer.ID,
		Payload: events.IssueAnalyzedPayload{
			Severity:     severity,
			Priority:     priority,
			RiskLevel:    riskLevel,
			SimilarCount: len(similar),
			AlertCount:   len(alerts),
		},
	})
	return result, nil
}

// GetAnalysis returns the cached analysis for an issue, recomputing the
// derivable parts on a cache miss. Recomputed results carry fallback
// insights since the collaborator is not re-consulted.
func (s *AnalysisService) GetAnalysis(ctx context.Context, issueID string) (*AnalysisResult, error) {
	var cached AnalysisResult
	if s.cache.Get(ctx, cache.IssueAnalysisKey(issueID), &cached) {
		return &cached, nil
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("issue", nil)
		}
		return nil, apperrors.MapError(err)
	}

	customer, err := s.customers.GetByID(ctx, issue.CustomerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	history, err := s.CustomerHistory(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	similar, err := s.SimilarIssues(ctx, issueID)
	if err != nil {
		return nil, err
	}

	policy := triage.HistoryRiskPolicy()
	riskScore, riskLevel := policy.Assess(history.Stats)

	result := &AnalysisResult{
		Issue:           *issue,
		Severity:        issue.Severity,
		Priority:        issue.Priority,
		RiskScore:       riskScore,
		RiskLevel:       riskLevel,
		SimilarIssues:   similar,
		Alerts:          nil,
		Insights:        llm.DefaultInsights(),
		Recommendations: triage.Recommend(issue.Severity, similar, riskLevel),
		Degraded:        true,
	}
	s.cache.Set(ctx, cache.IssueAnalysisKey(issueID), result, s.cfg.IssueAnalysisTTL)
	return result, nil
}

// SimilarIssues ranks resolved issues similar to the given issue, serving
// from cache when a fresh ranking exists.
func (s *AnalysisService) SimilarIssues(ctx context.Context, issueID string) ([]domain.SimilarIssue, error) {
	var cached []domain.SimilarIssue
	if s.cache.Get(ctx, cache.SimilarIssuesKey(issueID), &cached) {
		return cached, nil
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("issue", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return s.rankSimilar(ctx, issue), nil
}

// CustomerHistory builds the customer's aggregate view, served from cache
// within the configured TTL.
func (s *AnalysisService) CustomerHistory(ctx context.Context, customerID string) (*domain.CustomerHistory, error) {
	var cached domain.CustomerHistory
	if s.cache.Get(ctx, cache.CustomerKey(customerID), &cached) {
		return &cached, nil
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, apperrors.MapError(err)
	}

	stats, err := s.issues.StatsForCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	recent, err := s.issues.RecentByCustomer(ctx, customerID, 5)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	policy := triage.HistoryRiskPolicy()
	_, level := policy.Assess(stats)

	history := &domain.CustomerHistory{
		Customer:     *customer,
		Stats:        stats,
		RecentIssues: recent,
		RiskLevel:    level,
	}
	s.cache.Set(ctx, cache.CustomerKey(customerID), history, s.cfg.CustomerHistoryTTL)
	return history, nil
}

// rankSimilar computes the similarity ranking against the resolved corpus.
// Failures are logged and yield an empty ranking rather than an error.
func (s *AnalysisService) rankSimilar(ctx context.Context, issue *domain.Issue) []domain.SimilarIssue {
	corpus, err := s.issues.ListResolvedCorpus(ctx, s.cfg.SimilarityCorpusSize)
	if err != nil {
		s.logger.Warn("resolved corpus unavailable", zap.Error(err))
		return nil
	}

	docs := make([]triage.CorpusDoc, 0, len(corpus))
	byID := make(map[string]domain.Issue, len(corpus))
	for _, candidate := range corpus {
		if candidate.ID == issue.ID {
			continue
		}
		docs = append(docs, triage.CorpusDoc{
			ID:   candidate.ID,
			Text: candidate.Title + " " + candidate.Description,
		})
		byID[candidate.ID] = candidate
	}

	matches := triage.RankSimilar(issue.Title+" "+issue.Description, docs, s.cfg.SimilarityLimit)

	similar := make([]domain.SimilarIssue, 0, len(matches))
	for _, match := range matches {
		candidate := byID[match.Doc.ID]
		var hours float64
		if candidate.ResolutionHours != nil {
			hours = *candidate.ResolutionHours
		}
		similar = append(similar, domain.SimilarIssue{
			IssueID:         candidate.ID,
			Title:           candidate.Title,
			Description:     truncate(candidate.Description, descriptionPreviewLen),
			Severity:        candidate.Severity,
			SimilarityScore: match.Score,
			ResolutionHours: hours,
		})
	}

	if issue.ID != "" {
		s.cache.Set(ctx, cache.SimilarIssuesKey(issue.ID), similar, s.cfg.SimilarIssuesTTL)
		if err := s.similarities.ReplaceForIssue(ctx, issue.ID, similar); err != nil {
			s.logger.Warn("similarity cross-reference write failed",
				zap.String("issue_id", issue.ID), zap.Error(err))
		}
	}
	return similar
}

// RunDetection evaluates critical conditions for one customer outside the
// analysis pipeline, persisting any new alerts.
func (s *AnalysisService) RunDetection(ctx context.Context, customerID string) []domain.CriticalAlert {
	return s.detectAndPersistAlerts(ctx, customerID)
}

// detectAndPersistAlerts evaluates critical conditions for the customer and
// stores any new alerts. Detection failures never fail analysis.
func (s *AnalysisService) detectAndPersistAlerts(ctx context.Context, customerID string) []domain.CriticalAlert {
	now := time.Now()
	issues, err := s.issues.ListForDetection(ctx, customerID, now.Add(-triage.HighSeverityWindow))
	if err != nil {
		s.logger.Warn("detection issue load failed", zap.String("customer_id", customerID), zap.Error(err))
		return nil
	}
	active, err := s.alerts.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Warn("active alert load failed", zap.String("customer_id", customerID), zap.Error(err))
		return nil
	}

	detected := triage.DetectCriticalConditions(now, customerID, issues, active)
	persisted := make([]domain.CriticalAlert, 0, len(detected))
	for i := range detected {
		alert := detected[i]
		if err := s.alerts.Create(ctx, &alert); err != nil {
			s.logger.Warn("alert persist failed", zap.String("customer_id", customerID), zap.Error(err))
			continue
		}
		persisted = append(persisted, alert)
		s.publishEvent(ctx, events.Event{
			Type:       events.EventAlertRaised,
			IssueID:    derefString(alert.IssueID),
			CustomerID: customerID,
			Payload: events.AlertRaisedPayload{
				AlertID:   alert.ID,
				AlertType: alert.Type,
				Message:   alert.Message,
			},
		})
	}
	return persisted
}

// generateInsights consults the model collaborator, substituting defaults
// when it is unavailable or responds out of schema.
func (s *AnalysisService) generateInsights(ctx context.Context, issue *domain.Issue, similar []domain.SimilarIssue) (llm.Insights, bool) {
	if s.insights == nil {
		return llm.DefaultInsights(), true
	}

	contexts := make([]llm.SimilarContext, 0, len(similar))
	for _, match := range similar {
		contexts = append(contexts, llm.SimilarContext{
			Title:           match.Title,
			ResolutionHours: match.ResolutionHours,
		})
	}
	insights, err := s.insights.GenerateInsights(ctx, issue.Title, issue.Description, contexts)
	if err != nil {
		s.logger.Warn("insight generation degraded",
			zap.String("issue_id", issue.ID), zap.Error(err))
		return llm.DefaultInsights(), true
	}
	return insights, false
}

func (s *AnalysisService) publishEvent(ctx context.Context, event events.Event) {
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

func validateAnalyzeInput(input AnalyzeInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.CustomerID) == "" {
		details["customer_id"] = "required"
	}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		details["description"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid analyze request", details)
	}
	return nil
}

// truncate shortens text to at most max characters, never splitting a rune.
func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
