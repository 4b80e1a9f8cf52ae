package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cup_controller/internal/config"
	"cup_controller/internal/device"
	"cup_controller/internal/models"
	"cup_controller/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadProgram(t *testing.T) {
	path := writeProgram(t, `
name: Bake
repeat: 2
steps:
  - state: open
    durationMinutes: 5
  - id: hold
    state: closed
    durationMinutes: 0
`)
	p, err := loadProgram(path)
	require.NoError(t, err)
	assert.Equal(t, "Bake", p.Name)
	assert.Equal(t, 2, p.Repeat)
	require.Len(t, p.Steps, 2)
	assert.NotEmpty(t, p.ID)
	assert.NotEmpty(t, p.Steps[0].ID)
	assert.Equal(t, "hold", p.Steps[1].ID)
	assert.Equal(t, models.CupOpen, p.Steps[0].State)
	assert.Equal(t, 5, p.Steps[0].DurationMinutes)
}

func TestLoadProgram_JSON(t *testing.T) {
	path := writeProgram(t, `{"id":"p1","name":"j","steps":[{"state":"closed","durationMinutes":1}],"repeat":1}`)
	p, err := loadProgram(path)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestLoadProgram_Errors(t *testing.T) {
	_, err := loadProgram(writeProgram(t, "name: x\nrepeat: 1\nsteps: []\n"))
	require.ErrorIs(t, err, service.ErrEmptyProgram)

	_, err = loadProgram(writeProgram(t, "name: x\nrepeat: 1\nsteps:\n  - state: ajar\n    durationMinutes: 1\n"))
	require.ErrorIs(t, err, service.ErrInvalidProgram)

	_, err = loadProgram(writeProgram(t, "name: x\nrepeats: 1\n"))
	require.Error(t, err, "unknown keys are rejected")

	_, err = loadProgram(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidateCmd(t *testing.T) {
	path := writeProgram(t, "name: Bake\nrepeat: 3\nsteps:\n  - state: open\n    durationMinutes: 2\n")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"validate", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "OK Bake: 1 steps x 3, 3 commands, 6m0s")

	root = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"validate", writeProgram(t, "name: x\nrepeat: 0\nsteps:\n  - state: open\n    durationMinutes: 1\n")})
	require.Error(t, root.Execute())
	assert.Contains(t, out.String(), "INVALID")
}

func TestRunProgram_Completes(t *testing.T) {
	cfg := &config.Config{
		Cycle:   config.CycleConfig{StepUnit: time.Millisecond},
		History: config.HistoryConfig{Limit: 100},
	}
	transport := device.NewSimulatedTransport().
		WithLatency(0).
		WithRandom(func() float64 { return 0.5 })
	p := service.NormalizeProgram(models.CycleProgram{
		Name:   "quick",
		Repeat: 2,
		Steps: []models.CycleStep{
			{State: models.CupOpen, DurationMinutes: 1},
			{State: models.CupClosed, DurationMinutes: 0},
		},
	})

	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, runProgram(ctx, &syncWriter{w: &out}, cfg, transport, p))

	text := out.String()
	assert.Contains(t, text, "cycle completed")
	assert.Equal(t, 2, strings.Count(text, "OPEN"))
	assert.Equal(t, 2, strings.Count(text, "CLOSED"))
	assert.Contains(t, text, "[4/4]")
}

func TestRunProgram_CanceledStops(t *testing.T) {
	cfg := &config.Config{
		Cycle:   config.CycleConfig{StepUnit: time.Hour},
		History: config.HistoryConfig{Limit: 100},
	}
	transport := device.NewSimulatedTransport().
		WithLatency(0).
		WithRandom(func() float64 { return 0.5 })
	p := service.NormalizeProgram(models.CycleProgram{
		Name:   "long",
		Repeat: 1,
		Steps:  []models.CycleStep{{State: models.CupOpen, DurationMinutes: 1}, {State: models.CupClosed, DurationMinutes: 1}},
	})

	var out bytes.Buffer
	w := &syncWriter{w: &out}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for !strings.Contains(w.String(), "OPEN") && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
	}()
	require.NoError(t, runProgram(ctx, w, cfg, transport, p))
	assert.Contains(t, w.String(), "cycle stopped after")
	assert.NotContains(t, w.String(), "CLOSED")
}

func TestProgressPrinter_SameTimestampAttempts(t *testing.T) {
	var out bytes.Buffer
	p := newProgressPrinter(&out)
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	exec := &models.CycleExecution{ProgramID: "p", TotalSteps: 2, TotalRepeats: 1, IsRunning: true}

	first := models.HistoryEntry{State: models.CupOpen, Timestamp: ts, Success: true}
	second := models.HistoryEntry{State: models.CupClosed, Timestamp: ts, Success: true}
	p.notify(models.StateData{CycleExecution: exec, History: []models.HistoryEntry{first}, HistorySeq: 1})
	p.notify(models.StateData{CycleExecution: exec, History: []models.HistoryEntry{first, second}, HistorySeq: 2})
	p.notify(models.StateData{History: []models.HistoryEntry{first, second}, HistorySeq: 2})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "OPEN")
	assert.Contains(t, lines[1], "CLOSED")

	select {
	case <-p.done:
	default:
		t.Fatal("done not closed after the execution cleared")
	}
}
