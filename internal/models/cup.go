package models

import "time"

// CupState is the binary state of the Faraday cup.
type CupState string

const (
	CupOpen    CupState = "open"
	CupClosed  CupState = "closed"
	CupUnknown CupState = "unknown"
)

// Valid reports whether s is a state a command can target.
func (s CupState) Valid() bool {
	return s == CupOpen || s == CupClosed
}

// HistoryEntry records one device command attempt.
type HistoryEntry struct {
	State     CupState  `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// StateData is the process-wide state record shared by the controller,
// the scheduler and the status surface.
type StateData struct {
	CurrentState    CupState        `json:"currentState"`
	LastCommand     *CupState       `json:"lastCommand"`
	LastCommandTime *time.Time      `json:"lastCommandTime"`
	CycleExecution  *CycleExecution `json:"cycleExecution"`
	History         []HistoryEntry  `json:"history"`

	// HistorySeq counts every entry ever appended; clearing history keeps it.
	HistorySeq uint64 `json:"-"`
}

// HistorySince returns the retained entries appended after the snapshot
// whose HistorySeq was seq, oldest first.
func (s StateData) HistorySince(seq uint64) []HistoryEntry {
	if s.HistorySeq <= seq {
		return nil
	}
	n := s.HistorySeq - seq
	if n > uint64(len(s.History)) {
		n = uint64(len(s.History))
	}
	return s.History[len(s.History)-int(n):]
}

// Clone returns a deep copy that shares no memory with s.
func (s StateData) Clone() StateData {
	out := s
	if s.LastCommand != nil {
		cmd := *s.LastCommand
		out.LastCommand = &cmd
	}
	if s.LastCommandTime != nil {
		ts := *s.LastCommandTime
		out.LastCommandTime = &ts
	}
	if s.CycleExecution != nil {
		out.CycleExecution = s.CycleExecution.Clone()
	}
	if s.History != nil {
		out.History = make([]HistoryEntry, len(s.History))
		copy(out.History, s.History)
	}
	return out
}
