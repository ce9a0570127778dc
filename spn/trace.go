package spn

import (
	"sync"

	"github.com/btcsuite/btclog/v2"
)

// Op tells whether a trace event was produced while encrypting or
// decrypting.
type Op uint8

const (
	OpEncrypt Op = iota
	OpDecrypt
)

// String returns a human readable name for the operation.
func (o Op) String() string {
	switch o {
	case OpEncrypt:
		return "encrypt"
	case OpDecrypt:
		return "decrypt"
	default:
		return "unknown"
	}
}

// Stage identifies the round step after which a trace event is emitted.
type Stage uint8

const (
	StageKeyMix Stage = iota
	StageSubstitute
	StagePermute
)

// String returns a human readable name for the stage.
func (s Stage) String() string {
	switch s {
	case StageKeyMix:
		return "key-mix"
	case StageSubstitute:
		return "substitute"
	case StagePermute:
		return "permute"
	default:
		return "unknown"
	}
}

// TraceEvent is a snapshot of the cipher state. For key mixing, Round is
// the 1-based index of the round key used, so the closing whitening with K5
// is reported as round 5.
type TraceEvent struct {
	Op    Op
	Round int
	Stage Stage
	State uint16
}

// TraceFunc receives trace events in the order they happen.
type TraceFunc func(TraceEvent)

// TraceRecorder keeps every event it is handed.
type TraceRecorder struct {
	mu     sync.Mutex
	events []TraceEvent
}

// Record appends ev. It is usable as a TraceFunc.
func (r *TraceRecorder) Record(ev TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *TraceRecorder) Events() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]TraceEvent(nil), r.events...)
}

// Reset drops all recorded events.
func (r *TraceRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

// LogTracer returns a TraceFunc writing every event to logger at trace
// level.
func LogTracer(logger btclog.Logger) TraceFunc {
	return func(ev TraceEvent) {
		logger.Tracef("%v round=%d %v state=%04x", ev.Op, ev.Round,
			ev.Stage, ev.State)
	}
}
