// Package scheduler runs one recurring refresh timer per display session.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/kvgauge/plugin/internal/clock"
	"github.com/kvgauge/plugin/internal/session"
)

// Refresher redraws a single session. Implementations must tolerate being
// called for a session that has since been removed.
type Refresher interface {
	Refresh(ctx context.Context, id string)
}

// Lookup reads session state. *session.Registry satisfies it.
type Lookup interface {
	Lookup(id string) (session.Session, bool)
}

type entry struct {
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// Scheduler owns exactly one ticker per active session. Restarting always
// tears the old ticker down and arms a new one.
type Scheduler struct {
	mu              sync.Mutex
	clock           clock.Clock
	sessions        Lookup
	refresher       Refresher
	defaultInterval time.Duration
	entries         map[string]*entry
	inflight        sync.WaitGroup
}

func New(c clock.Clock, sessions Lookup, refresher Refresher, defaultInterval time.Duration) *Scheduler {
	if defaultInterval <= 0 {
		defaultInterval = session.DefaultInterval
	}
	return &Scheduler{
		clock:           c,
		sessions:        sessions,
		refresher:       refresher,
		defaultInterval: defaultInterval,
		entries:         make(map[string]*entry),
	}
}

// Start cancels any timer for id, refreshes once right away, then refreshes
// every configured interval. Refreshes run on ctx, which should outlive
// individual timers. Unknown sessions are a no-op.
func (s *Scheduler) Start(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked(id)

	sess, ok := s.sessions.Lookup(id)
	if !ok {
		return
	}
	interval := sess.Settings.IntervalOrDefault(s.defaultInterval)

	s.spawn(ctx, id)

	loopCtx, cancel := context.WithCancel(ctx)
	e := &entry{
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	s.entries[id] = e
	go s.loop(loopCtx, ctx, id, s.clock.NewTicker(interval), e.done)
}

// Restart is Stop followed by Start, so a new interval takes effect from now.
func (s *Scheduler) Restart(ctx context.Context, id string) {
	s.Stop(id)
	s.Start(ctx, id)
}

// Stop cancels the timer for id. Once Stop returns no further ticks for id
// are issued; refreshes already running are left to finish.
func (s *Scheduler) Stop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(id)
}

// StopAll cancels every timer.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.entries {
		s.stopLocked(id)
	}
}

// RefreshNow issues one refresh for id outside its timer.
func (s *Scheduler) RefreshNow(ctx context.Context, id string) {
	if _, ok := s.sessions.Lookup(id); !ok {
		return
	}
	s.spawn(ctx, id)
}

// Wait blocks until every issued refresh has returned.
func (s *Scheduler) Wait() {
	s.inflight.Wait()
}

// Active reports whether id has a live timer.
func (s *Scheduler) Active(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// Interval returns the interval of the live timer for id.
func (s *Scheduler) Interval(id string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return 0, false
	}
	return e.interval, true
}

// Len returns the number of live timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// stopLocked cancels and waits for the loop goroutine. Caller must hold s.mu.
// The loop never takes s.mu, so waiting here cannot deadlock.
func (s *Scheduler) stopLocked(id string) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	delete(s.entries, id)
	e.cancel()
	<-e.done
}

func (s *Scheduler) loop(loopCtx, refreshCtx context.Context, id string, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-loopCtx.Done():
			return
		case <-ticker.C():
			if loopCtx.Err() != nil {
				return
			}
			s.spawn(refreshCtx, id)
		}
	}
}

// spawn runs a refresh without waiting for it. Overlapping refreshes for one
// session are allowed; the last one to render wins.
func (s *Scheduler) spawn(ctx context.Context, id string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.refresher.Refresh(ctx, id)
	}()
}
