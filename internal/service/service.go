package service

import (
	"context"
	"time"

	"cup_controller/internal/device"
	"cup_controller/internal/logger"
	"cup_controller/internal/models"
	"cup_controller/internal/repository"
	"cup_controller/internal/store"
)

// Commander issues single device commands.
type Commander interface {
	Send(ctx context.Context, state models.CupState) CommandResult
}

// Cycle runs at most one cycle program at a time.
type Cycle interface {
	Start(program models.CycleProgram) error
	Pause() error
	Resume(program *models.CycleProgram) error
	Stop()
	Status() *models.CycleExecution
}

// Monitoring exposes read-only status plus history housekeeping.
type Monitoring interface {
	GetStatus(ctx context.Context) (CupStatus, error)
	ClearHistory()
	DebugInfo() DebugInfo
}

// EventLog exposes the audit log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.CupEvent, error)
}

// Poller reads the relay position back from the board.
type Poller interface {
	Poll(ctx context.Context) (models.CupState, error)
	Init(ctx context.Context) error
	Run(ctx context.Context, interval time.Duration)
}

// Service aggregates the sub-services the handlers and CLI use.
type Service struct {
	Commander
	Cycle
	Monitoring
	EventLog
	Poller
}

// Deps are the collaborators NewService wires together. Metrics may be nil.
type Deps struct {
	Repos        *repository.Repository
	Store        *store.Store
	Transport    device.Transport
	DeviceURL    string
	StepUnit     time.Duration
	PollInterval time.Duration
	Metrics      CommandMetrics
	Log          *logger.Logger
}

// NewService builds the service graph: one store, one command sender,
// one scheduler.
func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	var events repository.EventRepo
	if d.Repos != nil {
		events = d.Repos.EventRepo
	}

	commander := NewCommandService(d.Transport, d.Store, events, d.Metrics, d.Log)
	return &Service{
		Commander:  commander,
		Cycle:      NewScheduler(commander, d.Store, events, d.StepUnit, d.Log),
		Monitoring: NewMonitoringService(d.Store, d.Transport.Simulated(), d.DeviceURL),
		EventLog:   NewEventLogService(events),
		Poller:     NewPollerService(d.Transport, d.Store, events, d.PollInterval, d.Log),
	}
}

// Close stops the running cycle and background polling.
func (s *Service) Close() {
	if c, ok := s.Cycle.(interface{ Close() }); ok {
		c.Close()
	}
	if p, ok := s.Poller.(interface{ Close() }); ok {
		p.Close()
	}
}
