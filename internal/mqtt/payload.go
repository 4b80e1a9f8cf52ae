package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"cup_controller/internal/models"
)

// StatePayload is the retained document on the state topic.
type StatePayload struct {
	CurrentState    models.CupState        `json:"currentState"`
	LastCommand     *models.CupState       `json:"lastCommand"`
	LastCommandTime *time.Time             `json:"lastCommandTime"`
	CycleExecution  *models.CycleExecution `json:"cycleExecution"`
	Timestamp       time.Time              `json:"timestamp"`
}

// HistoryPayload announces a single command attempt.
type HistoryPayload struct {
	models.HistoryEntry
	Progress string `json:"progress,omitempty"`
}

type statusPayload struct {
	Status    string    `json:"status"`
	ClientID  string    `json:"client_id"`
	Timestamp time.Time `json:"timestamp"`
}

func buildStatePayload(s models.StateData, now time.Time) ([]byte, error) {
	b, err := json.Marshal(StatePayload{
		CurrentState:    s.CurrentState,
		LastCommand:     s.LastCommand,
		LastCommandTime: s.LastCommandTime,
		CycleExecution:  s.CycleExecution,
		Timestamp:       now.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode state payload: %w", err)
	}
	return b, nil
}

func buildHistoryPayload(e models.HistoryEntry, exec *models.CycleExecution) ([]byte, error) {
	p := HistoryPayload{HistoryEntry: e}
	if exec != nil {
		p.Progress = fmt.Sprintf("%d/%d", exec.CompletedSteps, exec.TotalCommands())
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode history payload: %w", err)
	}
	return b, nil
}

func buildStatusPayload(status, clientID string) []byte {
	b, _ := json.Marshal(statusPayload{Status: status, ClientID: clientID, Timestamp: time.Now().UTC()})
	return b
}
