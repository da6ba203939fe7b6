package display

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kvgauge/plugin/internal/metrics"
	"github.com/kvgauge/plugin/internal/session"
)

type fakeProvider struct {
	usage metrics.Result[float64]
	temp  metrics.Result[metrics.Temperatures]
	clock metrics.Result[metrics.ClockSpeeds]

	// hook runs inside every query, before the result is returned.
	hook func()
}

func (f *fakeProvider) run() {
	if f.hook != nil {
		f.hook()
	}
}

func (f *fakeProvider) Usage(context.Context) metrics.Result[float64] {
	f.run()
	return f.usage
}

func (f *fakeProvider) Temperature(context.Context) metrics.Result[metrics.Temperatures] {
	f.run()
	return f.temp
}

func (f *fakeProvider) Clock(context.Context) metrics.Result[metrics.ClockSpeeds] {
	f.run()
	return f.clock
}

type title struct {
	context string
	title   string
}

type recordingRenderer struct {
	mu     sync.Mutex
	titles []title
	err    error
}

func (r *recordingRenderer) SetTitle(context, t string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title{context, t})
	return r.err
}

func (r *recordingRenderer) all() []title {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]title(nil), r.titles...)
}

func newTestUpdater(p *fakeProvider) (*Updater, *session.Registry, *recordingRenderer) {
	reg := session.NewRegistry()
	rr := &recordingRenderer{}
	return NewUpdater(reg, p, rr), reg, rr
}

func assertTitles(t *testing.T, rr *recordingRenderer, want ...title) {
	t.Helper()
	got := rr.all()
	if len(got) != len(want) {
		t.Fatalf("rendered %d titles %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("title[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRefreshRendersEachKind(t *testing.T) {
	p := &fakeProvider{
		usage: metrics.Value(47.6),
		temp:  metrics.Value(metrics.Temperatures{Main: 0, Max: 62.3}),
		clock: metrics.Value(metrics.ClockSpeeds{Base: 3.4}),
	}
	u, reg, rr := newTestUpdater(p)
	reg.Register("usage", session.UsagePercent, session.Settings{})
	reg.Register("temp", session.TemperatureCelsius, session.Settings{})
	reg.Register("clock", session.ClockSpeedGHz, session.Settings{})

	ctx := context.Background()
	u.Refresh(ctx, "usage")
	u.Refresh(ctx, "temp")
	u.Refresh(ctx, "clock")

	assertTitles(t, rr,
		title{"usage", "48%"},
		title{"temp", "62°C"},
		title{"clock", "3.40 GHz"},
	)
}

func TestRefreshUnknownSession(t *testing.T) {
	u, _, rr := newTestUpdater(&fakeProvider{usage: metrics.Value(10.0)})
	u.Refresh(context.Background(), "ghost")
	assertTitles(t, rr)
}

func TestRefreshAbsentValues(t *testing.T) {
	p := &fakeProvider{
		usage: metrics.Missing[float64](),
		temp:  metrics.Missing[metrics.Temperatures](),
		clock: metrics.Failure[metrics.ClockSpeeds](errors.New("no cpuinfo")),
	}
	u, reg, rr := newTestUpdater(p)
	reg.Register("usage", session.UsagePercent, session.Settings{})
	reg.Register("temp", session.TemperatureCelsius, session.Settings{})
	reg.Register("clock", session.ClockSpeedGHz, session.Settings{})

	ctx := context.Background()
	u.Refresh(ctx, "usage")
	u.Refresh(ctx, "temp")
	u.Refresh(ctx, "clock")

	// Only temperature has a sentinel; the others keep their previous title.
	assertTitles(t, rr, title{"temp", TemperatureUnavailable})
}

func TestRefreshAbortsWhenRemovedDuringQuery(t *testing.T) {
	p := &fakeProvider{usage: metrics.Value(50.0)}
	u, reg, rr := newTestUpdater(p)
	reg.Register("ctx-a", session.UsagePercent, session.Settings{})
	p.hook = func() { reg.Unregister("ctx-a") }

	u.Refresh(context.Background(), "ctx-a")

	assertTitles(t, rr)
	if _, ok := reg.Lookup("ctx-a"); ok {
		t.Error("refresh recreated a removed session")
	}
}

func TestRefreshAbortsWhenReplacedDuringQuery(t *testing.T) {
	p := &fakeProvider{usage: metrics.Value(50.0)}
	u, reg, rr := newTestUpdater(p)
	reg.Register("ctx-a", session.UsagePercent, session.Settings{})
	p.hook = func() {
		p.hook = nil
		reg.Register("ctx-a", session.UsagePercent, session.Settings{})
	}

	u.Refresh(context.Background(), "ctx-a")
	assertTitles(t, rr)

	u.Refresh(context.Background(), "ctx-a")
	assertTitles(t, rr, title{"ctx-a", "50%"})
}

func TestRefreshRendererErrorIsNotFatal(t *testing.T) {
	u, reg, rr := newTestUpdater(&fakeProvider{usage: metrics.Value(5.0)})
	rr.err = errors.New("connection closed")
	reg.Register("ctx-a", session.UsagePercent, session.Settings{})

	u.Refresh(context.Background(), "ctx-a")
	u.Refresh(context.Background(), "ctx-a")

	if got := len(rr.all()); got != 2 {
		t.Errorf("render attempts = %d, want 2", got)
	}
}

func TestRefreshTracksHealth(t *testing.T) {
	p := &fakeProvider{usage: metrics.Failure[float64](errors.New("boom"))}
	u, reg, _ := newTestUpdater(p)
	reg.Register("ctx-a", session.UsagePercent, session.Settings{})

	ctx := context.Background()
	for i := 0; i < DefaultFailureThreshold; i++ {
		u.Refresh(ctx, "ctx-a")
	}
	if got := u.health[session.UsagePercent].status(u.threshold); got != StatusDegraded {
		t.Errorf("usage health = %v, want degraded", got)
	}
	if got := u.health[session.TemperatureCelsius].status(u.threshold); got != StatusHealthy {
		t.Errorf("temperature health = %v, want healthy", got)
	}

	p.usage = metrics.Value(12.0)
	u.Refresh(ctx, "ctx-a")
	if got := u.health[session.UsagePercent].status(u.threshold); got != StatusHealthy {
		t.Errorf("usage health after success = %v, want healthy", got)
	}
}
