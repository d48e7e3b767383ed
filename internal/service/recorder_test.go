package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/metrics"
	"picow_telemetry/internal/models"
)

func TestRecorderService_RecordNeverBlocks(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	m := metrics.New()
	rec := NewRecorderService(repo, 2, m, logger.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			rec.Record(models.EventMalformedPayload, "bad", nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked with no writer running")
	}

	if v := testutil.ToFloat64(m.EventsDropped); v != 3 {
		t.Fatalf("dropped events: want 3, got %v", v)
	}
}

func TestRecorderService_RunPersistsAndFlushes(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	rec := NewRecorderService(repo, 8, metrics.New(), logger.Nop())
	fixed := time.Date(2025, 5, 4, 10, 0, 0, 0, time.FixedZone("X", 3600))
	rec.now = func() time.Time { return fixed }

	rec.Record(models.EventConnected, "connected to mqtts://b:8883", map[string]any{"broker": "mqtts://b:8883"})
	rec.Record(models.EventDisconnected, "eof", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Run(ctx) // canceled: flushes the queue and returns

	types := repo.appendedTypes()
	if len(types) != 2 || types[0] != models.EventConnected || types[1] != models.EventDisconnected {
		t.Fatalf("persisted %v", types)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, e := range repo.appended {
		if e.EventID == "" {
			t.Errorf("event id not set: %+v", e)
		}
		if e.OccurredAt.Location() != time.UTC || !e.OccurredAt.Equal(fixed) {
			t.Errorf("occurred_at: want %v in UTC, got %v", fixed, e.OccurredAt)
		}
	}
}

func TestRecorderService_RunSurvivesRepoErrors(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{appendErr: errors.New("disk full")}
	rec := NewRecorderService(repo, 0, metrics.New(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx)
		close(done)
	}()

	rec.Record(models.EventConnectError, "refused", nil)
	rec.Record(models.EventConnectError, "refused", nil)

	deadline := time.Now().Add(2 * time.Second)
	for len(repo.appendedTypes()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("writer stopped after an error, persisted %v", repo.appendedTypes())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}
