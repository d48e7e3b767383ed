package service

import (
	"context"

	"picow_telemetry/internal/ingest"
	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/metrics"
	"picow_telemetry/internal/models"
	"picow_telemetry/internal/transport"
)

type IngestionService struct {
	buf     *ingest.Buffer
	events  Recorder
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewIngestionService(buf *ingest.Buffer, events Recorder, m *metrics.Metrics, log *logger.Logger) *IngestionService {
	return &IngestionService{buf: buf, events: events, metrics: m, log: log}
}

// HandleMessage parses the payload and queues the value. A malformed payload
// is reported and dropped; it never stops the subscription.
func (s *IngestionService) HandleMessage(_ context.Context, msg transport.Message) {
	s.metrics.MessagesReceived.Inc()

	v, err := s.buf.PushPayload(msg.Payload)
	if err != nil {
		s.metrics.PayloadsMalformed.Inc()
		s.log.Warnw("payload_malformed", "topic", msg.Topic, "err", err)
		s.events.Record(models.EventMalformedPayload, err.Error(), map[string]any{
			"topic": msg.Topic,
			"bytes": len(msg.Payload),
		})
		return
	}
	s.log.Debugw("reading_queued", "topic", msg.Topic, "value", v)
}
