package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"picow_telemetry/internal/models"
	"picow_telemetry/internal/service"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	snap  models.Snapshot
	err   error
	calls int
}

func (m *mockMonitoring) GetSnapshot(ctx context.Context) (models.Snapshot, error) {
	m.calls++
	return m.snap, m.err
}

type mockEventLog struct {
	resp     []models.DiagnosticEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	calls    int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DiagnosticEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockConnection struct {
	up bool
}

func (m *mockConnection) OnConnected(string) { m.up = true }
func (m *mockConnection) OnConnectError(error) { m.up = false }
func (m *mockConnection) OnDisconnected(string) { m.up = false }
func (m *mockConnection) Connected() bool { return m.up }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func ptr(v float64) *float64 { return &v }
