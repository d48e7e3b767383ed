package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/metrics"
	"picow_telemetry/internal/models"
	"picow_telemetry/internal/repository"
)

const (
	defaultEventQueue = 256
	flushTimeout      = 2 * time.Second
)

// RecorderService queues diagnostic events and writes them from a single
// background goroutine, so callers on the MQTT delivery path never wait on
// the database. When the queue is full the event is dropped and counted.
type RecorderService struct {
	repo    repository.EventRepo
	queue   chan models.DiagnosticEvent
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
}

func NewRecorderService(repo repository.EventRepo, size int, m *metrics.Metrics, log *logger.Logger) *RecorderService {
	if size <= 0 {
		size = defaultEventQueue
	}
	return &RecorderService{
		repo:    repo,
		queue:   make(chan models.DiagnosticEvent, size),
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Record enqueues an event without blocking.
func (r *RecorderService) Record(typ, description string, meta any) {
	e := models.DiagnosticEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  r.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}
	select {
	case r.queue <- e:
	default:
		r.metrics.EventsDropped.Inc()
		r.log.Debugw("event_dropped", "type", typ)
	}
}

// Run persists queued events until ctx is canceled, then flushes what is
// already queued.
func (r *RecorderService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return
		case e := <-r.queue:
			r.write(ctx, e)
		}
	}
}

func (r *RecorderService) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	for {
		select {
		case e := <-r.queue:
			r.write(ctx, e)
		default:
			return
		}
	}
}

func (r *RecorderService) write(ctx context.Context, e models.DiagnosticEvent) {
	if err := r.repo.Append(ctx, e); err != nil {
		r.log.Errorw("event_append_failed", "type", e.Type, "err", err)
	}
}
