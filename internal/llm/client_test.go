package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInsights(t *testing.T) {
	body := `{
		"root_cause": "Connection pool exhaustion under load",
		"resolution_approach": "Increase pool size and add backpressure",
		"estimated_time_hours": 6,
		"escalation_triggers": ["No response in 4 hours"],
		"communication_strategy": "Hourly updates"
	}`

	insights, err := ParseInsights(body)

	require.NoError(t, err)
	assert.Equal(t, "Connection pool exhaustion under load", insights.RootCause)
	assert.Equal(t, 6.0, insights.EstimatedTimeHours)
	assert.Equal(t, []string{"No response in 4 hours"}, insights.EscalationTriggers)
}

func TestParseInsightsStripsMarkdownFence(t *testing.T) {
	body := "```json\n" +
		`{"root_cause":"rc","resolution_approach":"ra","estimated_time_hours":2,"escalation_triggers":[],"communication_strategy":"cs"}` +
		"\n```"

	insights, err := ParseInsights(body)

	require.NoError(t, err)
	assert.Equal(t, "rc", insights.RootCause)
	assert.Equal(t, 2.0, insights.EstimatedTimeHours)
}

func TestParseInsightsRejectsNonJSON(t *testing.T) {
	_, err := ParseInsights("The root cause is probably a misconfiguration.")
	assert.Error(t, err)
}

func TestParseInsightsRejectsMissingFields(t *testing.T) {
	_, err := ParseInsights(`{"estimated_time_hours": 4}`)
	assert.Error(t, err)
}

func TestParseInsightsDefaultsNonPositiveEstimate(t *testing.T) {
	insights, err := ParseInsights(`{"root_cause":"rc","resolution_approach":"ra","estimated_time_hours":0}`)

	require.NoError(t, err)
	assert.Equal(t, 24.0, insights.EstimatedTimeHours)
}

func TestDefaultInsights(t *testing.T) {
	insights := DefaultInsights()
	assert.Equal(t, "Analysis pending", insights.RootCause)
	assert.Equal(t, 24.0, insights.EstimatedTimeHours)
}
