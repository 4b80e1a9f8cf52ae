package handlers

import (
	"context"
	"time"

	"cup_controller/internal/models"
	"cup_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockCommander struct {
	result service.CommandResult
	sent   []models.CupState
}

func (m *mockCommander) Send(ctx context.Context, state models.CupState) service.CommandResult {
	m.sent = append(m.sent, state)
	return m.result
}

type mockCycle struct {
	startErr  error
	pauseErr  error
	resumeErr error
	status    *models.CycleExecution

	started     []models.CycleProgram
	resumedWith []*models.CycleProgram
	pauseCalls  int
	stopCalls   int
}

func (m *mockCycle) Start(p models.CycleProgram) error {
	m.started = append(m.started, p)
	return m.startErr
}
func (m *mockCycle) Pause() error {
	m.pauseCalls++
	return m.pauseErr
}
func (m *mockCycle) Resume(p *models.CycleProgram) error {
	m.resumedWith = append(m.resumedWith, p)
	return m.resumeErr
}
func (m *mockCycle) Stop()                          { m.stopCalls++ }
func (m *mockCycle) Status() *models.CycleExecution { return m.status }

type mockMonitoring struct {
	status       service.CupStatus
	err          error
	debug        service.DebugInfo
	clearedCalls int
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (service.CupStatus, error) {
	return m.status, m.err
}
func (m *mockMonitoring) ClearHistory()                { m.clearedCalls++ }
func (m *mockMonitoring) DebugInfo() service.DebugInfo { return m.debug }

type mockEventLog struct {
	resp      []models.CupEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.CupEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

type mockPoller struct {
	state     models.CupState
	pollErr   error
	initErr   error
	initCalls int
}

func (m *mockPoller) Poll(ctx context.Context) (models.CupState, error) {
	return m.state, m.pollErr
}
func (m *mockPoller) Init(ctx context.Context) error {
	m.initCalls++
	return m.initErr
}
func (m *mockPoller) Run(ctx context.Context, interval time.Duration) {}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
