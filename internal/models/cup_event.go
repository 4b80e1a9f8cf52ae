package models

import "time"

// Event types written to the audit log.
const (
	EventCommand        = "COMMAND"
	EventCommandFailed  = "COMMAND_FAILED"
	EventCommandAborted = "COMMAND_ABORTED"
	EventCycleStart     = "CYCLE_START"
	EventCyclePause     = "CYCLE_PAUSE"
	EventCycleResume    = "CYCLE_RESUME"
	EventCycleStop      = "CYCLE_STOP"
	EventCycleComplete  = "CYCLE_COMPLETE"
	EventPoll           = "POLL"
)

// CupEvent is a single audit log entry.
type CupEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // COMMAND | COMMAND_FAILED | COMMAND_ABORTED | CYCLE_* | POLL
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
