package service

import (
	"sync/atomic"

	"picow_telemetry/internal/metrics"
	"picow_telemetry/internal/models"
)

// ConnectionService mirrors the broker link state into the diagnostic log
// and the connection gauge.
type ConnectionService struct {
	events  Recorder
	metrics *metrics.Metrics
	up      atomic.Bool
}

func NewConnectionService(events Recorder, m *metrics.Metrics) *ConnectionService {
	return &ConnectionService{events: events, metrics: m}
}

func (s *ConnectionService) OnConnected(broker string) {
	s.setUp(true)
	s.events.Record(models.EventConnected, "connected to "+broker, map[string]any{"broker": broker})
}

func (s *ConnectionService) OnConnectError(err error) {
	s.setUp(false)
	s.events.Record(models.EventConnectError, err.Error(), nil)
}

// OnDisconnected records only a transition from up to down; client errors
// reported while already down are noise.
func (s *ConnectionService) OnDisconnected(reason string) {
	if !s.up.Swap(false) {
		return
	}
	s.metrics.ConnectionUp.Set(0)
	s.events.Record(models.EventDisconnected, reason, nil)
}

func (s *ConnectionService) Connected() bool { return s.up.Load() }

func (s *ConnectionService) setUp(up bool) {
	s.up.Store(up)
	if up {
		s.metrics.ConnectionUp.Set(1)
	} else {
		s.metrics.ConnectionUp.Set(0)
	}
}
