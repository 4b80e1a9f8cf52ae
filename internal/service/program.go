package service

import (
	"errors"
	"fmt"
	"time"

	"cup_controller/internal/models"

	"github.com/google/uuid"
)

// Scheduler and program errors. Handlers map these to 400.
var (
	ErrAlreadyRunning  = errors.New("a cycle program is already running")
	ErrEmptyProgram    = errors.New("program must have at least one step")
	ErrInvalidProgram  = errors.New("invalid program")
	ErrNotRunning      = errors.New("no cycle program is running")
	ErrAlreadyPaused   = errors.New("cycle program is already paused")
	ErrNotPaused       = errors.New("cycle program is not paused")
	ErrProgramMismatch = errors.New("program does not match the paused execution")
)

// ValidateProgram checks a program before it is handed to the scheduler.
func ValidateProgram(p models.CycleProgram) error {
	if len(p.Steps) == 0 {
		return ErrEmptyProgram
	}
	if p.Repeat < 1 {
		return fmt.Errorf("%w: repeat must be >= 1, got %d", ErrInvalidProgram, p.Repeat)
	}
	seen := make(map[string]int, len(p.Steps))
	for i, step := range p.Steps {
		if !step.State.Valid() {
			return fmt.Errorf("%w: step %d: state must be open or closed, got %q", ErrInvalidProgram, i+1, step.State)
		}
		if step.DurationMinutes < 0 {
			return fmt.Errorf("%w: step %d: durationMinutes must be >= 0, got %d", ErrInvalidProgram, i+1, step.DurationMinutes)
		}
		if step.ID == "" {
			continue
		}
		if j, dup := seen[step.ID]; dup {
			return fmt.Errorf("%w: steps %d and %d share id %q", ErrInvalidProgram, j+1, i+1, step.ID)
		}
		seen[step.ID] = i
	}
	return nil
}

// NormalizeProgram returns a copy with generated ids where they are missing.
func NormalizeProgram(p models.CycleProgram) models.CycleProgram {
	out := p.Clone()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Name == "" {
		out.Name = "Unnamed program"
	}
	for i := range out.Steps {
		if out.Steps[i].ID == "" {
			out.Steps[i].ID = uuid.NewString()
		}
	}
	return out
}

// ProgramDuration is the total dwell of one full run with the given step unit.
// Repeat boundaries add nothing.
func ProgramDuration(p models.CycleProgram, unit time.Duration) time.Duration {
	var perPass time.Duration
	for _, step := range p.Steps {
		perPass += time.Duration(step.DurationMinutes) * unit
	}
	return perPass * time.Duration(p.Repeat)
}

// inheritIdentity fills the ids and name p leaves empty from the retained
// program, step by step where the step counts agree.
func inheritIdentity(p, retained models.CycleProgram) models.CycleProgram {
	out := p.Clone()
	if out.ID == "" {
		out.ID = retained.ID
	}
	if out.Name == "" {
		out.Name = retained.Name
	}
	if len(out.Steps) == len(retained.Steps) {
		for i := range out.Steps {
			if out.Steps[i].ID == "" {
				out.Steps[i].ID = retained.Steps[i].ID
			}
		}
	}
	return out
}

// sameShape reports whether p can drive exec: same program, same cardinalities.
func sameShape(p models.CycleProgram, exec *models.CycleExecution) bool {
	return p.ID == exec.ProgramID && len(p.Steps) == exec.TotalSteps && p.Repeat == exec.TotalRepeats
}
