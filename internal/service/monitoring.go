package service

import (
	"context"

	"cup_controller/internal/store"
)

// statusHistoryLen is how many history entries the status view carries.
const statusHistoryLen = 10

type MonitoringService struct {
	store     *store.Store
	debugMode bool
	deviceURL string
}

func NewMonitoringService(st *store.Store, debugMode bool, deviceURL string) *MonitoringService {
	return &MonitoringService{store: st, debugMode: debugMode, deviceURL: deviceURL}
}

var _ Monitoring = (*MonitoringService)(nil)

// GetStatus returns the shared state with only the newest history entries.
func (s *MonitoringService) GetStatus(ctx context.Context) (CupStatus, error) {
	if err := ctx.Err(); err != nil {
		return CupStatus{}, err
	}
	snap := s.store.Snapshot()
	history := snap.History
	if len(history) > statusHistoryLen {
		history = history[len(history)-statusHistoryLen:]
	}
	return CupStatus{
		CurrentState:    snap.CurrentState,
		LastCommand:     snap.LastCommand,
		LastCommandTime: snap.LastCommandTime,
		CycleExecution:  snap.CycleExecution,
		History:         history,
	}, nil
}

// ClearHistory drops the in-memory command history.
func (s *MonitoringService) ClearHistory() {
	s.store.ClearHistory()
}

func (s *MonitoringService) DebugInfo() DebugInfo {
	return DebugInfo{DebugMode: s.debugMode, DeviceURL: s.deviceURL}
}
