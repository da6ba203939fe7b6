// Package metrics reads CPU telemetry from the host operating system.
package metrics

import "context"

// Status says whether a query produced a value.
type Status int

const (
	Absent Status = iota
	Present
	Failed
)

func (s Status) String() string {
	switch s {
	case Present:
		return "present"
	case Failed:
		return "failed"
	default:
		return "absent"
	}
}

// Result is the outcome of one metric query.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

func Value[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: Present}
}

func Missing[T any]() Result[T] {
	return Result[T]{Status: Absent}
}

func Failure[T any](err error) Result[T] {
	return Result[T]{Status: Failed, Err: err}
}

// Get returns the value and whether one was present.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Status == Present
}

// Temperatures holds CPU sensor readings in degrees Celsius. Zero or
// negative readings are treated as invalid by consumers.
type Temperatures struct {
	Main  float64
	Max   float64
	Cores []float64
}

// ClockSpeeds holds CPU frequencies in GHz; zero means unavailable.
type ClockSpeeds struct {
	Current float64
	Base    float64
}

// Provider is the telemetry source. Each call may block on the OS and
// should honour ctx where the platform allows.
type Provider interface {
	Usage(ctx context.Context) Result[float64]
	Temperature(ctx context.Context) Result[Temperatures]
	Clock(ctx context.Context) Result[ClockSpeeds]
}
