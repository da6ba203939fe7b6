package display

import (
	"context"
	"log"

	"github.com/kvgauge/plugin/internal/metrics"
	"github.com/kvgauge/plugin/internal/session"
)

// Renderer delivers a title to the widget identified by context. It is
// called while the registry read lock is held and must not block.
type Renderer interface {
	SetTitle(context string, title string) error
}

// Sessions is the registry view the updater needs.
type Sessions interface {
	Lookup(id string) (session.Session, bool)
	IfCurrent(s session.Session, fn func()) bool
}

// Updater refreshes one session's title per call.
type Updater struct {
	sessions  Sessions
	provider  metrics.Provider
	renderer  Renderer
	threshold int
	health    map[session.MetricKind]*queryHealth
}

func NewUpdater(sessions Sessions, provider metrics.Provider, renderer Renderer) *Updater {
	return &Updater{
		sessions:  sessions,
		provider:  provider,
		renderer:  renderer,
		threshold: DefaultFailureThreshold,
		health: map[session.MetricKind]*queryHealth{
			session.UsagePercent:       newQueryHealth(),
			session.TemperatureCelsius: newQueryHealth(),
			session.ClockSpeedGHz:      newQueryHealth(),
		},
	}
}

// Refresh queries the metric for id and renders it. A session removed
// before or during the query is skipped without rendering, as is a
// session replaced by a newer instance under the same id.
func (u *Updater) Refresh(ctx context.Context, id string) {
	s, ok := u.sessions.Lookup(id)
	if !ok {
		return
	}

	title, ok := u.label(ctx, s.Kind)
	if !ok {
		return
	}

	var err error
	if !u.sessions.IfCurrent(s, func() { err = u.renderer.SetTitle(id, title) }) {
		return
	}
	if err != nil {
		log.Printf("setTitle %s: %v", id, err)
	}
}

func (u *Updater) label(ctx context.Context, kind session.MetricKind) (string, bool) {
	switch kind {
	case session.UsagePercent:
		r := u.provider.Usage(ctx)
		u.observe(kind, r.Status, r.Err)
		return FormatUsage(r)
	case session.TemperatureCelsius:
		r := u.provider.Temperature(ctx)
		u.observe(kind, r.Status, r.Err)
		return FormatTemperature(r)
	case session.ClockSpeedGHz:
		r := u.provider.Clock(ctx)
		u.observe(kind, r.Status, r.Err)
		return FormatClock(r)
	default:
		return "", false
	}
}

func (u *Updater) observe(kind session.MetricKind, status metrics.Status, err error) {
	h, ok := u.health[kind]
	if !ok {
		return
	}
	if status == metrics.Failed {
		h.recordFailure(err)
	} else {
		h.recordSuccess()
	}

	st, lastErr, changed := h.transition(u.threshold)
	if !changed {
		return
	}
	if st == StatusDegraded {
		log.Printf("%s metric degraded after %d failed queries: %s", kind, u.threshold, lastErr)
	} else {
		log.Printf("%s metric recovered", kind)
	}
}
