package service

import (
	"context"

	"picow_telemetry/internal/models"
	"picow_telemetry/internal/series"
)

type MonitoringService struct {
	store *series.Store
}

func NewMonitoringService(store *series.Store) *MonitoringService {
	return &MonitoringService{store: store}
}

// GetSnapshot returns a consistent copy of the live window. When the window
// is empty the snapshot carries placeholder text instead of bounds.
func (s *MonitoringService) GetSnapshot(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}
	return s.store.Snapshot(), nil
}
