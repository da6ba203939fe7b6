package metrics

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Simulated produces plausible synthetic readings for running the plugin
// on machines without usable sensors. Values drift along a slow sine wave
// with jitter; every few calls a burst pushes usage and temperature up.
type Simulated struct {
	mu    sync.Mutex
	rng   *rand.Rand
	start time.Time
	now   func() time.Time
	calls int
}

func NewSimulated(seed int64) *Simulated {
	return &Simulated{
		rng:   rand.New(rand.NewSource(seed)),
		start: time.Now(),
		now:   time.Now,
	}
}

// load returns a 0..1 activity level for the current call.
func (s *Simulated) load() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	elapsed := s.now().Sub(s.start).Seconds()
	base := 0.35 + 0.2*math.Sin(elapsed/30)
	if s.calls%17 == 0 {
		base += 0.35
	}
	base += (s.rng.Float64() - 0.5) * 0.1
	return math.Max(0, math.Min(1, base))
}

func (s *Simulated) Usage(context.Context) Result[float64] {
	return Value(s.load() * 100)
}

func (s *Simulated) Temperature(context.Context) Result[Temperatures] {
	l := s.load()
	pkg := 38 + l*50
	return Value(Temperatures{
		Main:  pkg,
		Max:   pkg + 3,
		Cores: []float64{pkg - 1, pkg + 3},
	})
}

func (s *Simulated) Clock(context.Context) Result[ClockSpeeds] {
	l := s.load()
	return Value(ClockSpeeds{
		Current: 1.2 + l*3.6,
		Base:    3.4,
	})
}
