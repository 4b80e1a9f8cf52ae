package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"cup_controller/internal/models"
)

// fakeEventRepo satisfies repository.EventRepo and is safe for the
// scheduler's background goroutines.
type fakeEventRepo struct {
	mu sync.Mutex

	// captured inputs
	gotCtx   context.Context
	gotFrom  time.Time
	gotTo    time.Time
	gotType  string
	gotLimit int
	appended []models.CupEvent

	// configured outputs
	events    []models.CupEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.CupEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	f.gotLimit = limit
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.CupEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

// fakeTransport is a scriptable device.Transport.
type fakeTransport struct {
	mu        sync.Mutex
	switched  []models.CupState
	switchErr error
	probe     models.CupState
	probeErr  error
	probes    int
	simulated bool
}

func (f *fakeTransport) Switch(ctx context.Context, state models.CupState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switched = append(f.switched, state)
	return f.switchErr
}

func (f *fakeTransport) Probe(ctx context.Context) (models.CupState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.probe, f.probeErr
}

func (f *fakeTransport) Simulated() bool { return f.simulated }

func (f *fakeTransport) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

func (f *fakeTransport) setProbe(s models.CupState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probe = s
}

// recordingSender stands in for the command layer in scheduler tests.
// When gate is set every Send blocks until a value is received from it
// or ctx is canceled.
type recordingSender struct {
	mu     sync.Mutex
	sent   []models.CupState
	fail   map[int]string // 0-based call index -> error
	gate   chan struct{}
	inside chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, state models.CupState) CommandResult {
	r.mu.Lock()
	idx := len(r.sent)
	r.sent = append(r.sent, state)
	msg, failing := r.fail[idx]
	gate, inside := r.gate, r.inside
	r.mu.Unlock()

	if inside != nil {
		inside <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return CommandResult{Success: false, Error: ctx.Err().Error()}
		}
	}
	if failing {
		return CommandResult{Success: false, Error: msg}
	}
	return CommandResult{Success: true}
}

func (r *recordingSender) states() []models.CupState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.CupState, len(r.sent))
	copy(out, r.sent)
	return out
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

var errDeviceDown = errors.New("device down")

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}
