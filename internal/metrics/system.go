package metrics

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

// DefaultUsageWindow is the shortest span a usage sample covers. Callers
// arriving within it share the previous sample.
const DefaultUsageWindow = 500 * time.Millisecond

// System is a Provider backed by gopsutil.
type System struct {
	// cpufreqRoot is the sysfs directory holding per-CPU cpufreq entries.
	cpufreqRoot string
	usageWindow time.Duration
	percent     func(ctx context.Context) ([]float64, error)
	now         func() time.Time

	mu          sync.Mutex
	lastUsage   float64
	lastUsageAt time.Time
}

func NewSystem() *System {
	return &System{
		cpufreqRoot: defaultCPUFreqRoot,
		usageWindow: DefaultUsageWindow,
		percent: func(ctx context.Context) ([]float64, error) {
			return cpu.PercentWithContext(ctx, 0, false)
		},
		now: time.Now,
	}
}

// Usage returns total CPU utilisation since the previous sample.
// gopsutil measures against a process-wide baseline, so several usage
// keys ticking together would each see a sliver of time; a sample
// younger than usageWindow is reused instead.
func (s *System) Usage(ctx context.Context) Result[float64] {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.lastUsageAt.IsZero() && now.Sub(s.lastUsageAt) < s.usageWindow {
		return Value(s.lastUsage)
	}
	pcts, err := s.percent(ctx)
	if err != nil {
		return Failure[float64](fmt.Errorf("cpu percent: %w", err))
	}
	if len(pcts) == 0 {
		return Missing[float64]()
	}
	s.lastUsage, s.lastUsageAt = pcts[0], now
	return Value(pcts[0])
}

// Temperature classifies the host's thermal sensors into package and core
// readings. gopsutil reports unreadable sensors as warnings alongside the
// readable ones, so an error only counts when nothing came back.
func (s *System) Temperature(ctx context.Context) Result[Temperatures] {
	stats, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil && len(stats) == 0 {
		return Failure[Temperatures](fmt.Errorf("sensors: %w", err))
	}
	temps, ok := classifySensors(stats)
	if !ok {
		return Missing[Temperatures]()
	}
	return Value(temps)
}

// Clock returns the live average frequency when the platform exposes one,
// and the nominal frequency reported by cpu.Info.
func (s *System) Clock(ctx context.Context) Result[ClockSpeeds] {
	var speeds ClockSpeeds
	if ghz, ok := currentFrequency(s.cpufreqRoot); ok {
		speeds.Current = ghz
	}

	infos, err := cpu.InfoWithContext(ctx)
	if err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
		speeds.Base = infos[0].Mhz / 1000
	}

	switch {
	case speeds.Current > 0 || speeds.Base > 0:
		return Value(speeds)
	case err != nil:
		return Failure[ClockSpeeds](fmt.Errorf("cpu info: %w", err))
	default:
		return Missing[ClockSpeeds]()
	}
}

// packageSensorKeys match whole-package sensors across Intel, AMD and ARM boards.
var packageSensorKeys = []string{
	"package id 0",
	"package_id_0",
	"x86_pkg_temp",
	"tctl",
	"tdie",
	"k10temp",
	"cpu_thermal",
	"cpu-thermal",
	"cpu thermal",
}

func isPackageSensor(key string) bool {
	for _, k := range packageSensorKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

func isCoreSensor(key string) bool {
	return strings.Contains(key, "core")
}

func classifySensors(stats []host.TemperatureStat) (Temperatures, bool) {
	var t Temperatures
	found := false
	for _, st := range stats {
		key := strings.ToLower(st.SensorKey)
		switch {
		case isPackageSensor(key):
			if t.Main <= 0 {
				t.Main = st.Temperature
			}
		case isCoreSensor(key):
			t.Cores = append(t.Cores, st.Temperature)
		default:
			continue
		}
		found = true
		if st.Temperature > t.Max {
			t.Max = st.Temperature
		}
	}
	return t, found
}
