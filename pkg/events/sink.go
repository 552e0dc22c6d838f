package events

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Sink receives observability events. Implementations must tolerate
// events with zero-value fields.
type Sink interface {
	Write(ctx context.Context, event *Event) error
	Close() error
	Name() string
}

// NopSink discards all events. It is the default for library consumers that
// do not care about observability.
type NopSink struct{}

func (NopSink) Write(context.Context, *Event) error { return nil }
func (NopSink) Close() error                        { return nil }
func (NopSink) Name() string                        { return "nop" }

// LogSink renders events through a zap logger, mapping event severity to
// the matching log level.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("events")}
}

func (s *LogSink) Write(_ context.Context, event *Event) error {
	fields := make([]zap.Field, 0, 5)
	fields = append(fields,
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("severity", string(event.Severity)),
		zap.Time("timestamp", event.Timestamp),
	)
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	switch event.Severity {
	case SeverityCritical:
		s.logger.Error("event", fields...)
	case SeverityWarning:
		s.logger.Warn("event", fields...)
	default:
		s.logger.Info("event", fields...)
	}
	return nil
}

func (s *LogSink) Close() error { return nil }

func (s *LogSink) Name() string { return "log" }

// MultiSink fans events out to every configured sink. A failing sink does
// not block delivery to the rest; all failures come back combined.
type MultiSink struct {
	sinks  []Sink
	logger *zap.Logger
}

func NewMultiSink(logger *zap.Logger, sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

func (s *MultiSink) Write(ctx context.Context, event *Event) error {
	var errs error
	for _, sink := range s.sinks {
		err := sink.Write(ctx, event)
		if err == nil {
			continue
		}
		// zap.Error would attach a stacktrace at warn level.
		s.logger.Warn("event sink write failed",
			zap.String("sink", sink.Name()),
			zap.String("error", err.Error()))
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (s *MultiSink) Close() error {
	var errs error
	for _, sink := range s.sinks {
		errs = multierr.Append(errs, sink.Close())
	}
	return errs
}

func (s *MultiSink) Name() string { return "multi" }
