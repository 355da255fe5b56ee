package tracking

import (
	"context"
	"sync/atomic"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
)

const (
	defaultQueueSize   = 256
	defaultSendTimeout = 5 * time.Second
	defaultDrainGrace  = 3 * time.Second
)

// Options tunes the emitter. Zero values fall back to defaults.
type Options struct {
	QueueSize   int
	SendTimeout time.Duration
	DrainGrace  time.Duration
}

// Emitter queues records and delivers them to a Sink from a single worker.
// Emit never blocks: when the queue is full the record is dropped.
type Emitter struct {
	queue       chan models.TrackingRecord
	sink        Sink
	log         *logger.Logger
	sendTimeout time.Duration
	drainGrace  time.Duration

	dropped   atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
}

func NewEmitter(sink Sink, log *logger.Logger, opts Options) *Emitter {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaultSendTimeout
	}
	if opts.DrainGrace <= 0 {
		opts.DrainGrace = defaultDrainGrace
	}
	if sink == nil {
		sink = NopSink{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Emitter{
		queue:       make(chan models.TrackingRecord, opts.QueueSize),
		sink:        sink,
		log:         log,
		sendTimeout: opts.SendTimeout,
		drainGrace:  opts.DrainGrace,
	}
}

// Emit hands rec to the worker. It returns immediately in all cases.
func (e *Emitter) Emit(rec models.TrackingRecord) {
	select {
	case e.queue <- rec:
	default:
		n := e.dropped.Add(1)
		e.log.Warnw("tracking_queue_full", "type", rec.EventType, "dropped_total", n)
	}
}

// Run delivers queued records until ctx is canceled, then flushes what is
// left within the drain grace period. It always returns nil so it can sit in
// an errgroup next to the HTTP server.
func (e *Emitter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			e.drain()
			return nil
		case rec := <-e.queue:
			e.deliver(ctx, rec)
		}
	}
}

func (e *Emitter) drain() {
	deadline := time.Now().Add(e.drainGrace)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	for {
		select {
		case rec := <-e.queue:
			if time.Now().After(deadline) {
				e.dropped.Add(1)
				continue
			}
			e.deliver(ctx, rec)
		default:
			return
		}
	}
}

func (e *Emitter) deliver(ctx context.Context, rec models.TrackingRecord) {
	sendCtx, cancel := context.WithTimeout(ctx, e.sendTimeout)
	defer cancel()

	if err := e.sink.Send(sendCtx, rec); err != nil {
		e.failed.Add(1)
		e.log.Errorw("tracking_sink_failed", "err", err, "id", rec.ID, "type", rec.EventType)
		return
	}
	e.delivered.Add(1)
}

// Counters is a snapshot of delivery outcomes.
type Counters struct {
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
	Queued    int   `json:"queued"`
}

func (e *Emitter) Counters() Counters {
	return Counters{
		Delivered: e.delivered.Load(),
		Failed:    e.failed.Load(),
		Dropped:   e.dropped.Load(),
		Queued:    len(e.queue),
	}
}
