package models

import "time"

// CycleStep holds the cup in State for DurationMinutes before the next step fires.
type CycleStep struct {
	ID              string   `json:"id" yaml:"id"`
	State           CupState `json:"state" yaml:"state"`
	DurationMinutes int      `json:"durationMinutes" yaml:"durationMinutes"`
}

// CycleProgram is a named step sequence executed Repeat times.
type CycleProgram struct {
	ID     string      `json:"id" yaml:"id"`
	Name   string      `json:"name" yaml:"name"`
	Steps  []CycleStep `json:"steps" yaml:"steps"`
	Repeat int         `json:"repeat" yaml:"repeat"`
}

// Clone returns a copy whose step slice is not shared with p.
func (p CycleProgram) Clone() CycleProgram {
	out := p
	out.Steps = make([]CycleStep, len(p.Steps))
	copy(out.Steps, p.Steps)
	return out
}

// CycleExecution is the progress record of the running (or paused) program.
type CycleExecution struct {
	ProgramID      string    `json:"programId"`
	ProgramName    string    `json:"programName"`
	CurrentStep    int       `json:"currentStep"`   // index of the next step to fire
	CurrentRepeat  int       `json:"currentRepeat"` // 1-based
	TotalSteps     int       `json:"totalSteps"`
	TotalRepeats   int       `json:"totalRepeats"`
	StartTime      time.Time `json:"startTime"`
	NextActionTime time.Time `json:"nextActionTime"`
	IsRunning      bool      `json:"isRunning"`
	IsPaused       bool      `json:"isPaused"`
	CompletedSteps int       `json:"completedSteps"`
}

// Clone returns a copy of e, or nil when e is nil.
func (e *CycleExecution) Clone() *CycleExecution {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

// TotalCommands is the number of step commands a full run issues.
func (e *CycleExecution) TotalCommands() int {
	return e.TotalSteps * e.TotalRepeats
}
