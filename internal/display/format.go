// Package display turns metric readings into widget titles and pushes
// them to the host.
package display

import (
	"fmt"
	"math"

	"github.com/kvgauge/plugin/internal/metrics"
)

// TemperatureUnavailable is shown when no CPU sensor can be read. Many
// platforms never expose one, so this is a steady state, not an error.
const TemperatureUnavailable = "N/A"

// FormatUsage renders utilisation as a whole percentage ("48%").
func FormatUsage(r metrics.Result[float64]) (string, bool) {
	v, ok := r.Get()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%d%%", int(math.Round(v))), true
}

// FormatTemperature renders the first valid reading of package sensor,
// hottest core, first core. It always yields a label.
func FormatTemperature(r metrics.Result[metrics.Temperatures]) (string, bool) {
	t, ok := r.Get()
	if !ok {
		return TemperatureUnavailable, true
	}
	candidates := []float64{t.Main, t.Max}
	if len(t.Cores) > 0 {
		candidates = append(candidates, t.Cores[0])
	}
	for _, c := range candidates {
		if c > 0 {
			return fmt.Sprintf("%d°C", int(math.Round(c))), true
		}
	}
	return TemperatureUnavailable, true
}

// FormatClock renders the live speed, or the base speed when the live one
// is unavailable, with two decimals ("3.40 GHz").
func FormatClock(r metrics.Result[metrics.ClockSpeeds]) (string, bool) {
	s, ok := r.Get()
	if !ok {
		return "", false
	}
	switch {
	case s.Current > 0:
		return fmt.Sprintf("%.2f GHz", s.Current), true
	case s.Base > 0:
		return fmt.Sprintf("%.2f GHz", s.Base), true
	default:
		return "", false
	}
}
