package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"cup_controller/internal/device"
	"cup_controller/internal/logger"
	"cup_controller/internal/models"
	"cup_controller/internal/repository"
	"cup_controller/internal/store"
)

// CommandMetrics receives one sample per command attempt that was not aborted.
type CommandMetrics interface {
	RecordCommand(state models.CupState, success bool, latency time.Duration)
}

// CommandService drives the relay and records every attempt.
type CommandService struct {
	transport device.Transport
	store     *store.Store
	events    repository.EventRepo
	metrics   CommandMetrics
	log       *logger.Logger
	now       func() time.Time
}

// NewCommandService wires a command sender. events and metrics may be nil.
func NewCommandService(transport device.Transport, st *store.Store, events repository.EventRepo, metrics CommandMetrics, log *logger.Logger) *CommandService {
	if log == nil {
		log = logger.NewNop()
	}
	return &CommandService{
		transport: transport,
		store:     st,
		events:    events,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

var (
	_ Commander     = (*CommandService)(nil)
	_ CommandSender = (*CommandService)(nil)
)

// Send switches the cup to state. On success the current state and last
// command are updated; success or not, a history entry is appended.
// Failures are reported in the result, never as a panic or error value.
// A command aborted by ctx cancellation touches neither state nor history
// and is only written to the audit log.
func (s *CommandService) Send(ctx context.Context, state models.CupState) CommandResult {
	start := s.now()
	err := s.transport.Switch(ctx, state)
	ts := s.now()
	latency := ts.Sub(start)

	if errors.Is(err, context.Canceled) {
		// the relay may or may not have switched; leave state and history alone
		s.log.Infow("device_command_aborted", "state", state, "err", err)
		s.record(ctx, models.EventCommandAborted, "Command "+upper(state)+" aborted", map[string]any{
			"state": state,
		})
		return CommandResult{Success: false, Error: err.Error()}
	}

	if s.metrics != nil {
		s.metrics.RecordCommand(state, err == nil, latency)
	}

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
		s.store.AddHistory(models.HistoryEntry{State: state, Timestamp: ts, Success: false, Error: msg})
		s.log.Warnw("device_command_failed", "state", state, "err", msg, "simulated", s.transport.Simulated())
		s.record(ctx, models.EventCommandFailed, "Command "+upper(state)+" failed", map[string]any{
			"state": state,
			"error": msg,
		})
		return CommandResult{Success: false, Error: msg}
	}

	s.store.Update(func(st *models.StateData) {
		cmd := state
		at := ts
		st.CurrentState = state
		st.LastCommand = &cmd
		st.LastCommandTime = &at
	})
	s.store.AddHistory(models.HistoryEntry{State: state, Timestamp: ts, Success: true})
	s.log.Infow("device_command_ok", "state", state, "latency_ms", latency.Milliseconds(), "simulated", s.transport.Simulated())
	s.record(ctx, models.EventCommand, "Command "+upper(state)+" successful", map[string]any{
		"state":      state,
		"latency_ms": latency.Milliseconds(),
	})
	return CommandResult{Success: true}
}

// record writes to the audit log even when ctx is already canceled.
func (s *CommandService) record(ctx context.Context, typ, desc string, meta map[string]any) {
	if s.events == nil {
		return
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventWriteTimeout)
	defer cancel()
	if err := s.events.Append(wctx, models.CupEvent{
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	}); err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}

func upper(s models.CupState) string {
	return strings.ToUpper(string(s))
}
