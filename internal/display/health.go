package display

import "sync"

// HealthStatus summarises recent query outcomes for one metric kind.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusDegraded HealthStatus = "degraded"
)

// DefaultFailureThreshold is the number of consecutive failed queries
// after which a metric is reported degraded.
const DefaultFailureThreshold = 3

// queryHealth tracks consecutive failures for one metric kind. Refreshes
// for many sessions record into it concurrently, so fields are guarded by mu.
type queryHealth struct {
	mu                sync.Mutex
	failures          int
	lastErr           string
	lastEmittedStatus HealthStatus
}

func newQueryHealth() *queryHealth {
	return &queryHealth{lastEmittedStatus: StatusHealthy}
}

func (h *queryHealth) recordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = 0
	h.lastErr = ""
}

func (h *queryHealth) recordFailure(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures++
	if err != nil {
		h.lastErr = err.Error()
	}
}

// statusLocked computes health status. Caller must hold h.mu.
func (h *queryHealth) statusLocked(threshold int) HealthStatus {
	if h.failures >= threshold {
		return StatusDegraded
	}
	return StatusHealthy
}

func (h *queryHealth) status(threshold int) HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.statusLocked(threshold)
}

// transition returns the current status and whether it differs from the
// last one reported, marking it reported.
func (h *queryHealth) transition(threshold int) (status HealthStatus, lastErr string, changed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status = h.statusLocked(threshold)
	changed = status != h.lastEmittedStatus
	if changed {
		h.lastEmittedStatus = status
	}
	return status, h.lastErr, changed
}
