package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/support-copilot/internal/domain"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ int) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestClassifyStrongKeywordSignal(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        domain.Severity
	}{
		{
			name:        "two critical keywords",
			title:       "Production down",
			description: "We are seeing data loss across the cluster",
			want:        domain.SeverityCritical,
		},
		{
			name:        "outage with data loss risk",
			title:       "Database outage",
			description: "production database is completely down, data loss risk",
			want:        domain.SeverityCritical,
		},
		{
			name:        "strong high signal",
			title:       "Export broken",
			description: "Export is broken and not working for our team",
			want:        domain.SeverityHigh,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{response: "Low"}
			c := NewClassifier(completer, zap.NewNop())

			got := c.Classify(context.Background(), tt.title, tt.description)

			assert.Equal(t, tt.want, got)
			assert.Zero(t, completer.calls, "strong signal must not consult the model")
		})
	}
}

func TestClassifyWeakSignalEscalates(t *testing.T) {
	completer := &fakeCompleter{response: "High"}
	c := NewClassifier(completer, zap.NewNop())

	got := c.Classify(context.Background(), "Strange behaviour", "Numbers look a bit off in the report")

	assert.Equal(t, domain.SeverityHigh, got)
	assert.Equal(t, 1, completer.calls)
}

func TestClassifyModelResponseTrimmed(t *testing.T) {
	completer := &fakeCompleter{response: "  Critical\n"}
	c := NewClassifier(completer, zap.NewNop())

	got := c.Classify(context.Background(), "Strange behaviour", "Numbers look off")

	assert.Equal(t, domain.SeverityCritical, got)
}

func TestClassifyInvalidModelResponseFallsBack(t *testing.T) {
	// single normal keyword: weak signal, model consulted but out of vocabulary
	completer := &fakeCompleter{response: "SUPER-CRITICAL"}
	c := NewClassifier(completer, zap.NewNop())

	got := c.Classify(context.Background(), "Question about billing", "A quick question on invoices")

	assert.Equal(t, domain.SeverityNormal, got)
}

func TestClassifyModelFailureKeepsKeywordResult(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("timeout")}
	c := NewClassifier(completer, zap.NewNop())

	got := c.Classify(context.Background(), "Minor issue with export", "A minor issue when exporting")

	assert.Equal(t, domain.SeverityNormal, got)
}

func TestClassifyTotalFailureDefaultsNormal(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("unreachable")}
	c := NewClassifier(completer, zap.NewNop())

	// no keywords match at all
	got := c.Classify(context.Background(), "zzzz", "qqqq")

	assert.Equal(t, domain.SeverityNormal, got)
}

func TestClassifyNilCompleter(t *testing.T) {
	c := NewClassifier(nil, zap.NewNop())

	got := c.Classify(context.Background(), "zzzz", "qqqq")

	assert.Equal(t, domain.SeverityNormal, got)
}

func TestClassifyTieResolvesToHigherSeverity(t *testing.T) {
	c := NewClassifier(nil, zap.NewNop())

	// "error" (High, 2.0) vs "question"+"help" (Normal, 2.0): tie at 2.0
	got := c.Classify(context.Background(), "Question about an error", "Need help with an error message")

	assert.Equal(t, domain.SeverityHigh, got)
}
