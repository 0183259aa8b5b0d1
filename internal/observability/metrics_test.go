package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshotCounts(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/v1/issues", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/v1/issues", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/v1/alerts", "GET", 200, 5*time.Millisecond)
	m.RecordError("/api/v1/issues", "GET", "NOT_FOUND")

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/api/v1/issues|GET|200"])
	assert.Equal(t, int64(1), snap.Requests["/api/v1/alerts|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/v1/issues|GET|NOT_FOUND"])
	assert.InDelta(t, 20, snap.AvgLatencyMs["/api/v1/issues|GET|200"], 0.01)
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	m.RecordRequest("/x", "GET", 200, time.Millisecond)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")

	snap := m.Snapshot()
	assert.Empty(t, snap.Requests)
	assert.Empty(t, snap.Errors)
}
