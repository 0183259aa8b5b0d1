package observability

import (
	"strconv"
	"sync"
	"time"
)

type routeStats struct {
	count      int64
	latencySum time.Duration
}

// Metrics keeps in-process request and error counters per route, plus
// latency sums for average-latency reporting.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*routeStats
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*routeStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts one completed request and its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &routeStats{}
		m.requests[key] = stats
	}
	stats.count++
	stats.latencySum += duration
}

// RecordError counts one request that ended in the given error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[path+"|"+method+"|"+code]++
}

// Snapshot is a point-in-time copy of the counters, keyed by
// "path|method|status" for requests and "path|method|code" for errors.
type Snapshot struct {
	Requests     map[string]int64   `json:"requests"`
	Errors       map[string]int64   `json:"errors"`
	AvgLatencyMs map[string]float64 `json:"avg_latency_ms"`
}

// Snapshot copies current counters for reporting.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests:     make(map[string]int64),
		Errors:       make(map[string]int64),
		AvgLatencyMs: make(map[string]float64),
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, stats := range m.requests {
		snap.Requests[key] = stats.count
		if stats.count > 0 {
			snap.AvgLatencyMs[key] = float64(stats.latencySum.Milliseconds()) / float64(stats.count)
		}
	}
	for key, count := range m.errors {
		snap.Errors[key] = count
	}
	return snap
}
