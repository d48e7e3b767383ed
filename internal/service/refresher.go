package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"picow_telemetry/internal/ingest"
	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/metrics"
	"picow_telemetry/internal/models"
	"picow_telemetry/internal/series"
)

// DefaultRefreshInterval matches the dashboard's auto-refresh period.
const DefaultRefreshInterval = 2500 * time.Millisecond

// RefresherService is the single consumer of the ingestion buffer.
type RefresherService struct {
	buf     *ingest.Buffer
	store   *series.Store
	events  Recorder
	metrics *metrics.Metrics
	log     *logger.Logger

	mu          sync.Mutex
	lastDropped uint64
}

func NewRefresherService(buf *ingest.Buffer, store *series.Store, events Recorder, m *metrics.Metrics, log *logger.Logger) *RefresherService {
	return &RefresherService{buf: buf, store: store, events: events, metrics: m, log: log}
}

// Run ticks at the given interval until ctx is canceled. A non-positive tick
// falls back to DefaultRefreshInterval.
func (s *RefresherService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultRefreshInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one refresh cycle and returns the number of values moved into
// the live series.
func (s *RefresherService) Tick(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	values := s.buf.DrainAll()
	for _, v := range values {
		s.store.Append(v)
	}

	s.metrics.WindowPoints.Set(float64(s.store.Len()))
	s.metrics.BufferPending.Set(float64(s.buf.Len()))
	if n := len(values); n > 0 {
		s.metrics.LatestValue.Set(values[n-1])
		s.log.Debugw("refresh", "appended", n, "window", s.store.Len())
	}
	s.reportDrops()
	s.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	return len(values)
}

// reportDrops turns the buffer's cumulative drop counter into one event per
// cycle in which values were lost.
func (s *RefresherService) reportDrops() {
	total := s.buf.Dropped()
	if total <= s.lastDropped {
		return
	}
	delta := total - s.lastDropped
	s.lastDropped = total

	s.metrics.BufferDropped.Add(float64(delta))
	s.log.Warnw("buffer_overflow", "dropped", delta, "policy", s.buf.Policy(), "capacity", s.buf.Capacity())
	s.events.Record(models.EventBufferOverflow,
		fmt.Sprintf("%d pending values dropped (%s)", delta, s.buf.Policy()),
		map[string]any{
			"dropped":  delta,
			"policy":   string(s.buf.Policy()),
			"capacity": s.buf.Capacity(),
		})
}
