package metrics

import (
	"context"
	"testing"
	"time"
)

func TestSimulatedReadingsInRange(t *testing.T) {
	s := NewSimulated(1)
	ctx := context.Background()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.start = fixed
	for i := 0; i < 100; i++ {
		at := fixed.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return at }

		u, ok := s.Usage(ctx).Get()
		if !ok || u < 0 || u > 100 {
			t.Fatalf("Usage() = %v, %v, want 0..100", u, ok)
		}
		temp, ok := s.Temperature(ctx).Get()
		if !ok || temp.Main <= 0 || temp.Max < temp.Main || len(temp.Cores) == 0 {
			t.Fatalf("Temperature() = %+v, %v", temp, ok)
		}
		clk, ok := s.Clock(ctx).Get()
		if !ok || clk.Current <= 0 || clk.Base != 3.4 {
			t.Fatalf("Clock() = %+v, %v", clk, ok)
		}
	}
}

func TestSimulatedDeterministicForSeed(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a, b := NewSimulated(42), NewSimulated(42)
	for _, s := range []*Simulated{a, b} {
		s.start = fixed
		s.now = func() time.Time { return fixed }
	}
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		ua, _ := a.Usage(ctx).Get()
		ub, _ := b.Usage(ctx).Get()
		if ua != ub {
			t.Fatalf("call %d: %v != %v for the same seed", i, ua, ub)
		}
	}
}
