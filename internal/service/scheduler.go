package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cup_controller/internal/logger"
	"cup_controller/internal/models"
	"cup_controller/internal/repository"
	"cup_controller/internal/store"
)

const (
	// DefaultStepUnit is the wall-clock length of one step minute.
	DefaultStepUnit = time.Minute

	eventWriteTimeout = 2 * time.Second
)

// CommandSender is the part of the command layer the scheduler depends on.
type CommandSender interface {
	Send(ctx context.Context, state models.CupState) CommandResult
}

// Scheduler executes cycle programs: Idle -> Running <-> Paused -> Idle.
//
// Every Start, Pause, Resume and Stop bumps gen. Timers and advance
// goroutines carry the gen and run ID they were created under and return
// without touching state when either no longer matches, so a timer that
// fires after a pause, a stop or a new start is a no-op.
type Scheduler struct {
	sender   CommandSender
	store    *store.Store
	events   repository.EventRepo
	log      *logger.Logger
	stepUnit time.Duration
	now      func() time.Time

	// runMu serializes advance; at most one step transition is in flight.
	runMu sync.Mutex

	mu        sync.Mutex
	exec      *models.CycleExecution
	program   models.CycleProgram
	runID     uint64
	gen       uint64
	timer     *time.Timer
	runCtx    context.Context
	cancelRun context.CancelFunc
}

// NewScheduler builds an idle scheduler. events may be nil.
func NewScheduler(sender CommandSender, st *store.Store, events repository.EventRepo, stepUnit time.Duration, log *logger.Logger) *Scheduler {
	if stepUnit <= 0 {
		stepUnit = DefaultStepUnit
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		sender:   sender,
		store:    st,
		events:   events,
		log:      log,
		stepUnit: stepUnit,
		now:      time.Now,
	}
}

var _ Cycle = (*Scheduler)(nil)

// Start begins program. It returns once the execution is published; the
// first step's command is issued asynchronously with no delay.
func (s *Scheduler) Start(program models.CycleProgram) error {
	s.mu.Lock()
	if s.exec != nil && s.exec.IsRunning {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	if err := ValidateProgram(program); err != nil {
		s.mu.Unlock()
		return err
	}

	now := s.now()
	s.program = program.Clone()
	s.runID++
	s.gen++
	s.exec = &models.CycleExecution{
		ProgramID:      program.ID,
		ProgramName:    program.Name,
		CurrentStep:    0,
		CurrentRepeat:  1,
		TotalSteps:     len(program.Steps),
		TotalRepeats:   program.Repeat,
		StartTime:      now,
		NextActionTime: now,
		IsRunning:      true,
		IsPaused:       false,
		CompletedSteps: 0,
	}
	s.runCtx, s.cancelRun = context.WithCancel(context.Background())
	s.publishLocked()
	runID, gen := s.runID, s.gen
	s.mu.Unlock()

	s.log.Infow("cycle_started",
		"program_id", program.ID,
		"program_name", program.Name,
		"steps", len(program.Steps),
		"repeat", program.Repeat,
	)
	s.record(models.EventCycleStart, "Cycle program "+program.Name+" started", map[string]any{
		"program_id": program.ID,
		"steps":      len(program.Steps),
		"repeat":     program.Repeat,
	})

	go s.advance(runID, gen)
	return nil
}

// Pause disarms the dwell timer. Progress fields stay frozen.
func (s *Scheduler) Pause() error {
	s.mu.Lock()
	if s.exec == nil {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if s.exec.IsPaused {
		s.mu.Unlock()
		return ErrAlreadyPaused
	}
	s.stopTimerLocked()
	s.gen++
	s.exec.IsPaused = true
	s.publishLocked()
	snap := s.exec.Clone()
	s.mu.Unlock()

	s.log.Infow("cycle_paused", "program_id", snap.ProgramID, "current_step", snap.CurrentStep, "completed_steps", snap.CompletedSteps)
	s.record(models.EventCyclePause, "Cycle program "+snap.ProgramName+" paused", progressMeta(snap))
	return nil
}

// Resume continues a paused execution by firing its current step right
// away; that step then dwells its full duration from now.
//
// program may be nil, in which case the copy taken at Start is used. When
// given it must be the same program (id, step count, repeat) and replaces
// the retained copy. An empty program or step id is taken from the retained
// copy, so the body that started an id-less program can resume it.
func (s *Scheduler) Resume(program *models.CycleProgram) error {
	s.mu.Lock()
	if s.exec == nil {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if !s.exec.IsPaused {
		s.mu.Unlock()
		return ErrNotPaused
	}
	if program != nil {
		resumed := inheritIdentity(*program, s.program)
		program = &resumed
		if !sameShape(*program, s.exec) {
			s.mu.Unlock()
			return ErrProgramMismatch
		}
		if err := ValidateProgram(*program); err != nil {
			s.mu.Unlock()
			return err
		}
		s.program = program.Clone()
	}
	s.gen++
	s.exec.IsPaused = false
	s.publishLocked()
	snap := s.exec.Clone()
	runID, gen := s.runID, s.gen
	s.mu.Unlock()

	s.log.Infow("cycle_resumed", "program_id", snap.ProgramID, "current_step", snap.CurrentStep)
	s.record(models.EventCycleResume, "Cycle program "+snap.ProgramName+" resumed", progressMeta(snap))

	go s.advance(runID, gen)
	return nil
}

// Stop cancels any armed timer and in-flight command and clears the
// execution. Calling it while idle is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	snap := s.exec.Clone()
	s.clearLocked()
	s.mu.Unlock()

	if snap == nil {
		return
	}
	s.log.Infow("cycle_stopped", "program_id", snap.ProgramID, "completed_steps", snap.CompletedSteps)
	s.record(models.EventCycleStop, "Cycle program "+snap.ProgramName+" stopped", progressMeta(snap))
}

// Status returns a copy of the live execution, or nil when idle.
func (s *Scheduler) Status() *models.CycleExecution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.Clone()
}

// Close stops the scheduler and waits for an in-flight step to unwind.
func (s *Scheduler) Close() {
	s.Stop()
	s.runMu.Lock()
	defer s.runMu.Unlock()
}

// advance runs step transitions for one run until it has to wait: a dwell
// timer is armed, the run is paused, or the program is done. Zero-length
// steps and repeat boundaries are handled by the loop, never by recursion.
func (s *Scheduler) advance(runID, gen uint64) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	for iter := 0; ; iter++ {
		s.mu.Lock()
		if !s.liveLocked(runID, gen) {
			s.mu.Unlock()
			return
		}
		exec := s.exec
		programID := exec.ProgramID
		if limit := exec.TotalCommands() + exec.TotalRepeats + 1; iter > limit {
			s.mu.Unlock()
			s.log.Errorw("cycle_iteration_limit_reached", "program_id", programID, "limit", limit)
			return
		}

		if exec.CurrentRepeat > exec.TotalRepeats {
			s.completeLocked()
			return
		}

		if exec.CurrentStep >= exec.TotalSteps {
			exec.CurrentStep = 0
			exec.CurrentRepeat++
			s.publishLocked()
			if exec.CurrentRepeat > exec.TotalRepeats {
				s.completeLocked()
				return
			}
			s.mu.Unlock()
			continue
		}

		index := exec.CurrentStep
		step := s.program.Steps[index]
		ctx := s.runCtx
		s.mu.Unlock()

		res := s.sender.Send(ctx, step.State)
		if !res.Success && ctx.Err() == nil {
			s.log.Warnw("cycle_step_command_failed",
				"program_id", programID,
				"step", index,
				"state", step.State,
				"err", res.Error,
			)
		}

		s.mu.Lock()
		if s.exec == nil || s.runID != runID {
			// stopped or replaced while the command was in flight
			s.mu.Unlock()
			return
		}
		exec = s.exec
		dwell := time.Duration(step.DurationMinutes) * s.stepUnit
		exec.CurrentStep = index + 1
		exec.CompletedSteps++
		exec.NextActionTime = s.now().Add(dwell)
		s.publishLocked()

		if s.gen != gen || exec.IsPaused {
			// paused (and possibly resumed) while the command was in flight;
			// whoever resumed owns the next transition
			s.mu.Unlock()
			return
		}
		if dwell > 0 {
			s.timer = time.AfterFunc(dwell, func() { s.advance(runID, gen) })
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// completeLocked tears down a finished run and releases s.mu.
func (s *Scheduler) completeLocked() {
	snap := s.exec.Clone()
	s.clearLocked()
	s.mu.Unlock()

	s.log.Infow("cycle_completed", "program_id", snap.ProgramID, "completed_steps", snap.CompletedSteps)
	s.record(models.EventCycleComplete, "Cycle program "+snap.ProgramName+" completed", progressMeta(snap))
}

func (s *Scheduler) liveLocked(runID, gen uint64) bool {
	return s.exec != nil &&
		s.runID == runID &&
		s.gen == gen &&
		s.exec.IsRunning &&
		!s.exec.IsPaused
}

func (s *Scheduler) clearLocked() {
	s.stopTimerLocked()
	s.gen++
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
	s.exec = nil
	s.program = models.CycleProgram{}
	s.publishLocked()
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// publishLocked mirrors the execution into the shared store.
func (s *Scheduler) publishLocked() {
	if s.store == nil {
		return
	}
	exec := s.exec.Clone()
	s.store.Update(func(st *models.StateData) {
		st.CycleExecution = exec
	})
}

func (s *Scheduler) record(typ, desc string, meta map[string]any) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventWriteTimeout)
	defer cancel()
	if err := s.events.Append(ctx, models.CupEvent{
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	}); err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}

func progressMeta(e *models.CycleExecution) map[string]any {
	return map[string]any{
		"program_id":      e.ProgramID,
		"current_step":    e.CurrentStep,
		"current_repeat":  e.CurrentRepeat,
		"completed_steps": e.CompletedSteps,
		"total_commands":  e.TotalCommands(),
		"progress":        fmt.Sprintf("%d/%d", e.CompletedSteps, e.TotalCommands()),
	}
}
