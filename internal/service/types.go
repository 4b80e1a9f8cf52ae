package service

import (
	"time"

	"cup_controller/internal/models"
)

// CommandResult is the outcome of one device command.
type CommandResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CupStatus is what the status endpoint and websocket stream report.
type CupStatus struct {
	CurrentState    models.CupState        `json:"currentState"`
	LastCommand     *models.CupState       `json:"lastCommand"`
	LastCommandTime *time.Time             `json:"lastCommandTime"`
	CycleExecution  *models.CycleExecution `json:"cycleExecution"`
	History         []models.HistoryEntry  `json:"history"`
}

// DebugInfo describes how the device is reached.
type DebugInfo struct {
	DebugMode bool   `json:"debugMode"`
	DeviceURL string `json:"deviceUrl"`
}

// LogFilter supports audit log filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "COMMAND", "CYCLE_START", ...
	Limit int       // newest N; 0 means all
}
