package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/proctorsight/proctor-go/internal/integrity"
	"github.com/proctorsight/proctor-go/internal/telemetry"
)

// EventSink receives finalized events from the detection cycle. Delivery
// is fire-and-forget from the cycle's point of view: the cycle never
// blocks on storage latency.
type EventSink interface {
	Deliver(event integrity.Event)
}

// EventStore is the narrow persistence capability the sink needs. The
// datastore package satisfies it.
type EventStore interface {
	AppendEvent(ctx context.Context, sessionID string, event integrity.Event) error
}

// persistTimeout bounds a single append so a stalled database cannot back
// up the drain loop indefinitely.
const persistTimeout = 5 * time.Second

// AsyncSink decouples detection from persistence with a bounded queue and
// a background worker. A full queue drops the event with a log line and a
// metric rather than stalling the tick sequence. Delivery failures are
// logged, not retried; retry policy belongs to the storage layer.
type AsyncSink struct {
	sessionID string
	store     EventStore
	queue     chan integrity.Event
	logger    *slog.Logger
	metrics   *telemetry.Metrics
}

// NewAsyncSink creates a sink appending events to the given session.
func NewAsyncSink(store EventStore, sessionID string, queueSize int, logger *slog.Logger, metrics *telemetry.Metrics) *AsyncSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncSink{
		sessionID: sessionID,
		store:     store,
		queue:     make(chan integrity.Event, queueSize),
		logger:    logger,
		metrics:   metrics,
	}
}

// Deliver enqueues an event without blocking. Events are dropped when the
// queue is full.
func (s *AsyncSink) Deliver(event integrity.Event) {
	select {
	case s.queue <- event:
	default:
		s.logger.Warn("sink queue full, dropping event",
			"session_id", s.sessionID,
			"kind", string(event.Kind))
		if s.metrics != nil {
			s.metrics.SinkDrops.Inc()
		}
	}
}

// Run consumes the queue until the context is cancelled, then drains any
// queued events before returning. Always returns nil; persistence failures
// degrade to log lines.
func (s *AsyncSink) Run(ctx context.Context) error {
	for {
		select {
		case event := <-s.queue:
			s.persist(event)
		case <-ctx.Done():
			for {
				select {
				case event := <-s.queue:
					s.persist(event)
				default:
					return nil
				}
			}
		}
	}
}

func (s *AsyncSink) persist(event integrity.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.store.AppendEvent(ctx, s.sessionID, event); err != nil {
		s.logger.Error("failed to persist event",
			"session_id", s.sessionID,
			"kind", string(event.Kind),
			"error", err)
		if s.metrics != nil {
			s.metrics.SinkFailures.Inc()
		}
	}
}
