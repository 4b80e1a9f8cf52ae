package device

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"cup_controller/internal/models"
)

// Simulation tuning, matching the bench behaviour operators are used to.
const (
	simMinLatency  = 100 * time.Millisecond
	simLatencySpan = 200 * time.Millisecond
	simSuccessRate = 0.95
)

// ErrSimulatedFailure is the error a simulated command fails with.
var ErrSimulatedFailure = errors.New("simulated error for testing")

// SimulatedTransport answers like a relay board without any network I/O.
type SimulatedTransport struct {
	mu     sync.Mutex
	state  models.CupState
	random func() float64
	// latency is the fixed delay when set; otherwise 100-300ms.
	latency *time.Duration
}

// NewSimulatedTransport returns a simulator with randomized latency and a
// 5% failure rate.
func NewSimulatedTransport() *SimulatedTransport {
	return &SimulatedTransport{
		state:  models.CupUnknown,
		random: rand.Float64,
	}
}

var _ Transport = (*SimulatedTransport)(nil)

// WithRandom replaces the random source; values >= 0.05 succeed.
func (t *SimulatedTransport) WithRandom(fn func() float64) *SimulatedTransport {
	t.random = fn
	return t
}

// WithLatency fixes the simulated round trip.
func (t *SimulatedTransport) WithLatency(d time.Duration) *SimulatedTransport {
	t.latency = &d
	return t
}

// Simulated is always true.
func (t *SimulatedTransport) Simulated() bool { return true }

// Switch waits the simulated latency and then succeeds 95% of the time.
func (t *SimulatedTransport) Switch(ctx context.Context, state models.CupState) error {
	if !state.Valid() {
		return ErrUnknownState
	}
	if err := t.wait(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.random() < 1-simSuccessRate {
		return ErrSimulatedFailure
	}
	t.state = state
	return nil
}

// Probe reports the last successfully switched state.
func (t *SimulatedTransport) Probe(ctx context.Context) (models.CupState, error) {
	if err := ctx.Err(); err != nil {
		return models.CupUnknown, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, nil
}

func (t *SimulatedTransport) wait(ctx context.Context) error {
	t.mu.Lock()
	d := simMinLatency + time.Duration(t.random()*float64(simLatencySpan))
	if t.latency != nil {
		d = *t.latency
	}
	t.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
