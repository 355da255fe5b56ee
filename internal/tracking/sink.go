// Package tracking delivers tracking records to analytics sinks without
// ever blocking or failing the caller.
package tracking

import (
	"context"
	"errors"

	"portfolio/internal/logger"
	"portfolio/internal/models"
)

// Sink receives tracking records. Errors are reported to the emitter, which
// logs and drops them.
type Sink interface {
	Send(ctx context.Context, rec models.TrackingRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec models.TrackingRecord) error

func (f SinkFunc) Send(ctx context.Context, rec models.TrackingRecord) error { return f(ctx, rec) }

// NopSink drops everything.
type NopSink struct{}

func (NopSink) Send(context.Context, models.TrackingRecord) error { return nil }

// Appender is the storage side of StoreSink.
type Appender interface {
	Append(ctx context.Context, rec models.TrackingRecord) error
}

// StoreSink persists records through an Appender (the SQLite tracking log).
type StoreSink struct {
	store Appender
}

func NewStoreSink(store Appender) *StoreSink { return &StoreSink{store: store} }

func (s *StoreSink) Send(ctx context.Context, rec models.TrackingRecord) error {
	return s.store.Append(ctx, rec)
}

// LogSink writes each record to the structured log at debug level.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink { return &LogSink{log: log} }

func (s *LogSink) Send(_ context.Context, rec models.TrackingRecord) error {
	s.log.Debugw("tracking_event",
		"id", rec.ID,
		"visitor", rec.VisitorID,
		"type", rec.EventType,
		"properties", rec.EventProperties,
		"href", rec.Href,
	)
	return nil
}

// MultiSink fans a record out to every sink; one failing sink does not
// stop the others. The returned error joins all failures.
type MultiSink []Sink

func (m MultiSink) Send(ctx context.Context, rec models.TrackingRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
