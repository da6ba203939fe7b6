package session

import "time"

// DefaultInterval is used when a widget's settings carry no usable interval.
const DefaultInterval = 2000 * time.Millisecond

// Settings is the mutable per-widget configuration.
type Settings struct {
	Interval time.Duration
}

// IntervalOrDefault returns the configured interval, or def when it is not positive.
func (s Settings) IntervalOrDefault(def time.Duration) time.Duration {
	if s.Interval > 0 {
		return s.Interval
	}
	if def > 0 {
		return def
	}
	return DefaultInterval
}

// Session is one widget instance on the host display.
// Generation distinguishes instances that reuse the same ID across a
// disappear/appear cycle.
type Session struct {
	ID         string
	Kind       MetricKind
	Settings   Settings
	Generation uint64
}
