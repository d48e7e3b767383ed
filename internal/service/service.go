package service

import (
	"context"
	"time"

	"picow_telemetry/internal/ingest"
	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/metrics"
	"picow_telemetry/internal/models"
	"picow_telemetry/internal/repository"
	"picow_telemetry/internal/series"
	"picow_telemetry/internal/transport"
)

// Ingestion is the transport-side entry point. It runs on the MQTT delivery
// goroutine and never touches the live series.
type Ingestion interface {
	HandleMessage(ctx context.Context, msg transport.Message)
}

// Refresher moves pending values into the live series on every tick.
// Stop via context cancellation in main() for graceful shutdown.
type Refresher interface {
	Run(ctx context.Context, tick time.Duration)
	Tick(ctx context.Context) int
}

// Monitoring exposes the read model of the live series.
type Monitoring interface {
	GetSnapshot(ctx context.Context) (models.Snapshot, error)
}

// EventLog exposes the diagnostic log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DiagnosticEvent, error)
}

// Recorder accepts diagnostic events without blocking the caller.
type Recorder interface {
	Record(typ, description string, meta any)
}

// Connection tracks the broker link and receives transport lifecycle callbacks.
type Connection interface {
	transport.Observer
	Connected() bool
}

// Service aggregates all sub-services.
type Service struct {
	Ingestion
	Refresher
	Monitoring
	EventLog
	Connection

	// Events is the background writer behind Recorder; main runs it.
	Events *RecorderService
}

// Deps are the collaborators the services share. Buffer and Store are the
// only state between the transport goroutine and the presentation side.
type Deps struct {
	Repos      *repository.Repository
	Buffer     *ingest.Buffer
	Store      *series.Store
	Metrics    *metrics.Metrics
	Log        *logger.Logger
	EventQueue int
}

func NewService(d Deps) *Service {
	events := NewRecorderService(d.Repos.EventRepo, d.EventQueue, d.Metrics, d.Log.Named("events"))
	return &Service{
		Ingestion:  NewIngestionService(d.Buffer, events, d.Metrics, d.Log.Named("ingest")),
		Refresher:  NewRefresherService(d.Buffer, d.Store, events, d.Metrics, d.Log.Named("refresh")),
		Monitoring: NewMonitoringService(d.Store),
		EventLog:   NewEventLogService(d.Repos.EventRepo),
		Connection: NewConnectionService(events, d.Metrics),
		Events:     events,
	}
}
