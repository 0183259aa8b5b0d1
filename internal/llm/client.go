package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/spec-kit/support-copilot/internal/config"
)

// Client wraps the Anthropic API as the triage model collaborator. Every
// call carries an explicit timeout so a hung collaborator degrades the
// pipeline instead of stalling it.
type Client struct {
	api     *anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

// NewClient creates a collaborator client from config.
func NewClient(cfg config.AnthropicConfig) *Client {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:     &client,
		model:   anthropic.Model(cfg.Model),
		timeout: cfg.Timeout(),
	}
}

// Complete sends a single prompt and returns the text response.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}

// Insights is the schema model-generated analysis must fit. Responses that
// fail to decode into it are discarded by the caller.
type Insights struct {
	RootCause             string   `json:"root_cause"`
	ResolutionApproach    string   `json:"resolution_approach"`
	EstimatedTimeHours    float64  `json:"estimated_time_hours"`
	EscalationTriggers    []string `json:"escalation_triggers"`
	CommunicationStrategy string   `json:"communication_strategy"`
}

// DefaultInsights is the fallback used when the collaborator is
// unavailable or returns an out-of-schema response.
func DefaultInsights() Insights {
	return Insights{
		RootCause:             "Analysis pending",
		ResolutionApproach:    "Standard troubleshooting process",
		EstimatedTimeHours:    24,
		EscalationTriggers:    []string{"No response in 4 hours"},
		CommunicationStrategy: "Regular updates",
	}
}

const insightsPromptTemplate = `Analyze this support issue and provide insights:

Title: %s
Description: %s

Similar resolved issues:
%s

Please provide:
1. Root cause analysis (2-3 sentences)
2. Recommended resolution approach
3. Estimated resolution time
4. Potential escalation triggers
5. Customer communication strategy

Return ONLY a JSON object with keys: root_cause, resolution_approach, estimated_time_hours, escalation_triggers, communication_strategy. No markdown fencing or explanation.`

// SimilarContext is a compact description of one similar resolved issue
// included in the insights prompt.
type SimilarContext struct {
	Title           string
	ResolutionHours float64
}

// GenerateInsights asks the collaborator for structured analysis of the
// issue, validated against the Insights schema.
func (c *Client) GenerateInsights(ctx context.Context, title, description string, similar []SimilarContext) (Insights, error) {
	var sb strings.Builder
	for i, s := range similar {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, "- %s (resolved in %.1f hours)\n", s.Title, s.ResolutionHours)
	}
	prompt := fmt.Sprintf(insightsPromptTemplate, title, description, sb.String())

	text, err := c.Complete(ctx, prompt, 500)
	if err != nil {
		return Insights{}, err
	}
	return ParseInsights(text)
}

// ParseInsights decodes and validates a model response against the fixed
// schema, stripping markdown fencing if present.
func ParseInsights(text string) (Insights, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var insights Insights
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return Insights{}, fmt.Errorf("parse insights response: %w", err)
	}
	if insights.RootCause == "" || insights.ResolutionApproach == "" {
		return Insights{}, fmt.Errorf("insights response missing required fields")
	}
	if insights.EstimatedTimeHours <= 0 {
		insights.EstimatedTimeHours = 24
	}
	return insights, nil
}
