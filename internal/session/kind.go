package session

import (
	"encoding/json"
	"fmt"
)

// MetricKind selects which hardware metric a session displays.
type MetricKind int

const (
	UsagePercent MetricKind = iota
	TemperatureCelsius
	ClockSpeedGHz
)

var kindNames = map[MetricKind]string{
	UsagePercent:       "usage",
	TemperatureCelsius: "temperature",
	ClockSpeedGHz:      "clock",
}

var kindFromName = map[string]MetricKind{
	"usage":       UsagePercent,
	"temperature": TemperatureCelsius,
	"clock":       ClockSpeedGHz,
}

func (k MetricKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseMetricKind resolves a config name ("usage", "temperature", "clock").
func ParseMetricKind(name string) (MetricKind, error) {
	if k, ok := kindFromName[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown metric kind %q", name)
}

func (k MetricKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *MetricKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseMetricKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}
