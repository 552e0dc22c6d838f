package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recorder stamps events with defaults and writes them synchronously to a
// sink. A nil Recorder is valid and drops everything, so callers never need
// to guard their Emit calls.
type Recorder struct {
	sink Sink
}

// NewRecorder creates a Recorder writing to the given sink.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Emit fills in missing event defaults and writes the event. Write failures
// are swallowed: observability must never change the outcome of the
// operation being observed.
func (r *Recorder) Emit(ctx context.Context, event *Event) {
	if r == nil || r.sink == nil || event == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Severity == "" {
		event.Severity = DefaultSeverity(event.Type)
	}
	_ = r.sink.Write(ctx, event)
}

// Close closes the underlying sink.
func (r *Recorder) Close() error {
	if r == nil || r.sink == nil {
		return nil
	}
	return r.sink.Close()
}
