package service

import (
	"errors"
	"testing"
	"time"

	"cup_controller/internal/models"
)

func step(id string, state models.CupState, minutes int) models.CycleStep {
	return models.CycleStep{ID: id, State: state, DurationMinutes: minutes}
}

func TestValidateProgram(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      models.CycleProgram
		wantErr error
	}{
		{
			name:    "valid",
			in:      models.CycleProgram{ID: "p", Steps: []models.CycleStep{step("a", models.CupOpen, 1), step("b", models.CupClosed, 0)}, Repeat: 2},
			wantErr: nil,
		},
		{
			name:    "no steps",
			in:      models.CycleProgram{ID: "p", Repeat: 1},
			wantErr: ErrEmptyProgram,
		},
		{
			name:    "repeat zero",
			in:      models.CycleProgram{ID: "p", Steps: []models.CycleStep{step("a", models.CupOpen, 1)}},
			wantErr: ErrInvalidProgram,
		},
		{
			name:    "unknown state",
			in:      models.CycleProgram{ID: "p", Steps: []models.CycleStep{step("a", models.CupUnknown, 1)}, Repeat: 1},
			wantErr: ErrInvalidProgram,
		},
		{
			name:    "negative duration",
			in:      models.CycleProgram{ID: "p", Steps: []models.CycleStep{step("a", models.CupOpen, -1)}, Repeat: 1},
			wantErr: ErrInvalidProgram,
		},
		{
			name:    "duplicate step ids",
			in:      models.CycleProgram{ID: "p", Steps: []models.CycleStep{step("a", models.CupOpen, 1), step("a", models.CupClosed, 1)}, Repeat: 1},
			wantErr: ErrInvalidProgram,
		},
		{
			name:    "empty step ids are not duplicates",
			in:      models.CycleProgram{ID: "p", Steps: []models.CycleStep{step("", models.CupOpen, 1), step("", models.CupClosed, 1)}, Repeat: 1},
			wantErr: nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateProgram(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ValidateProgram() err = %v; want %v", err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeProgram(t *testing.T) {
	t.Parallel()

	in := models.CycleProgram{Steps: []models.CycleStep{step("", models.CupOpen, 1), step("keep", models.CupClosed, 1)}, Repeat: 1}
	out := NormalizeProgram(in)

	if out.ID == "" {
		t.Error("program id not generated")
	}
	if out.Name != "Unnamed program" {
		t.Errorf("Name = %q", out.Name)
	}
	if out.Steps[0].ID == "" || out.Steps[1].ID != "keep" {
		t.Errorf("unexpected step ids: %q, %q", out.Steps[0].ID, out.Steps[1].ID)
	}
	if in.Steps[0].ID != "" {
		t.Error("input program was mutated")
	}
}

func TestProgramDuration(t *testing.T) {
	t.Parallel()

	p := models.CycleProgram{Steps: []models.CycleStep{step("a", models.CupOpen, 2), step("b", models.CupClosed, 3)}, Repeat: 3}
	if got, want := ProgramDuration(p, time.Minute), 15*time.Minute; got != want {
		t.Fatalf("ProgramDuration = %v; want %v", got, want)
	}
}
