package triage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// keyword weights per severity level.
const (
	weightCritical = 3.0
	weightHigh     = 2.0
	weightNormal   = 1.0
	weightLow      = 0.5

	// below this accumulated score the keyword signal is considered weak
	// and the model collaborator is consulted.
	weakSignalThreshold = 2.0
)

var severityKeywords = map[domain.Severity][]string{
	domain.SeverityCritical: {
		"system down", "outage", "cannot access", "complete failure",
		"data loss", "security breach", "urgent", "emergency",
		"production down", "service unavailable",
	},
	domain.SeverityHigh: {
		"major issue", "significant problem", "blocking", "broken",
		"not working", "error", "failure", "important",
		"affecting multiple users", "performance issue",
	},
	domain.SeverityNormal: {
		"question", "help", "how to", "clarification",
		"minor issue", "improvement", "suggestion",
	},
	domain.SeverityLow: {
		"feature request", "enhancement", "nice to have",
		"cosmetic", "documentation", "typo",
	},
}

var severityWeights = map[domain.Severity]float64{
	domain.SeverityCritical: weightCritical,
	domain.SeverityHigh:     weightHigh,
	domain.SeverityNormal:   weightNormal,
	domain.SeverityLow:      weightLow,
}

// Completer is the model collaborator consulted when keyword signal is
// weak. Implementations must respect the context deadline.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Classifier maps free text to a severity level via weighted keyword
// matching, escalating to the model collaborator only on weak signal.
type Classifier struct {
	completer Completer
	logger    *zap.Logger
}

// NewClassifier constructs a classifier. The completer may be nil, in which
// case weak-signal escalation is skipped.
func NewClassifier(completer Completer, logger *zap.Logger) *Classifier {
	return &Classifier{completer: completer, logger: logger}
}

// Classify scores the concatenated title and description against the
// per-severity keyword sets and returns the highest scoring level.
// Collaborator failure is never fatal: the keyword result stands.
func (c *Classifier) Classify(ctx context.Context, title, description string) domain.Severity {
	content := strings.ToLower(title + " " + description)

	scores := make(map[domain.Severity]float64, len(severityKeywords))
	for severity, keywords := range severityKeywords {
		var score float64
		for _, keyword := range keywords {
			if strings.Contains(content, keyword) {
				score += severityWeights[severity]
			}
		}
		scores[severity] = score
	}

	best := domain.SeverityNormal
	var bestScore float64
	// iterate descending so ties resolve to the higher level
	for _, severity := range []domain.Severity{
		domain.SeverityCritical, domain.SeverityHigh, domain.SeverityNormal, domain.SeverityLow,
	} {
		if scores[severity] > bestScore {
			best = severity
			bestScore = scores[severity]
		}
	}

	if bestScore >= weakSignalThreshold {
		return best
	}

	if resolved, ok := c.classifyWithModel(ctx, title, description); ok {
		return resolved
	}
	if bestScore == 0 {
		return domain.SeverityNormal
	}
	return best
}

const severityPromptTemplate = `Analyze the following support issue and classify its severity as Critical, High, Normal, or Low.

Title: %s
Description: %s

Severity Guidelines:
- Critical: System outages, data loss, security breaches, complete service unavailability
- High: Major functionality broken, significant user impact, blocking issues
- Normal: Standard issues, questions, minor bugs with workarounds
- Low: Feature requests, cosmetic issues, documentation updates

Respond with only the severity level: Critical, High, Normal, or Low`

// classifyWithModel asks the collaborator to pick one of the four levels.
// Any response outside the fixed set is discarded.
func (c *Classifier) classifyWithModel(ctx context.Context, title, description string) (domain.Severity, bool) {
	if c.completer == nil {
		return "", false
	}
	prompt := fmt.Sprintf(severityPromptTemplate, title, description)
	response, err := c.completer.Complete(ctx, prompt, 10)
	if err != nil {
		c.logger.Warn("model severity classification failed", zap.Error(err))
		return "", false
	}
	severity := domain.Severity(strings.TrimSpace(response))
	if !severity.Valid() {
		c.logger.Warn("model returned out-of-vocabulary severity", zap.String("response", response))
		return "", false
	}
	return severity, true
}
