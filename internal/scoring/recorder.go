package scoring

import "time"

// Recorder receives scoring telemetry. The metrics package provides the
// Prometheus implementation.
type Recorder interface {
	ObserveLookupBatch(requested, resolved int, err error)
	ObserveGate(gate string)
	ObserveRound(miners int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLookupBatch(int, int, error) {}
func (nopRecorder) ObserveGate(string)                 {}
func (nopRecorder) ObserveRound(int, time.Duration)    {}
