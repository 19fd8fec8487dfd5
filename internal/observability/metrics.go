package observability

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics keeps lightweight in-process counters: per-route request and error
// totals plus a gauge of live websocket connections.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]int64
	errors   map[string]int64

	wsConnections int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		errors:   make(map[string]int64),
	}
}

// RecordRequest increments the counter for a handled request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	m.requests[key]++
	m.mu.Unlock()
}

// RecordError increments the counter for a failed request.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	m.errors[key]++
	m.mu.Unlock()
}

// WSConnected bumps the live websocket gauge.
func (m *Metrics) WSConnected() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.wsConnections, 1)
}

// WSDisconnected decrements the live websocket gauge.
func (m *Metrics) WSDisconnected() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.wsConnections, -1)
}

// WSConnections reports the current number of live websocket connections.
func (m *Metrics) WSConnections() int64 {
	if m == nil {
		return 0
	}
	return atomic.LoadInt64(&m.wsConnections)
}
