package service

import (
	"context"
	"sync"
	"time"

	"cup_controller/internal/device"
	"cup_controller/internal/logger"
	"cup_controller/internal/models"
	"cup_controller/internal/repository"
	"cup_controller/internal/store"
)

// DefaultPollInterval is how often Init polls the relay.
const DefaultPollInterval = 10 * time.Second

// PollerService keeps CurrentState in line with what the relay reports.
type PollerService struct {
	transport device.Transport
	store     *store.Store
	events    repository.EventRepo
	log       *logger.Logger
	interval  time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	polling bool
}

func NewPollerService(transport device.Transport, st *store.Store, events repository.EventRepo, interval time.Duration, log *logger.Logger) *PollerService {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &PollerService{
		transport: transport,
		store:     st,
		events:    events,
		log:       log,
		interval:  interval,
	}
}

var _ Poller = (*PollerService)(nil)

// Poll reads the relay once and stores the result as CurrentState. The
// command history is not touched.
func (p *PollerService) Poll(ctx context.Context) (models.CupState, error) {
	state, err := p.transport.Probe(ctx)
	if err != nil {
		p.log.Warnw("relay_poll_failed", "err", err)
		return models.CupUnknown, err
	}

	var prev models.CupState
	p.store.Update(func(st *models.StateData) {
		prev = st.CurrentState
		st.CurrentState = state
	})
	if prev != state {
		p.log.Infow("relay_state_changed", "from", prev, "to", state)
		p.record(state, prev)
	}
	return state, nil
}

// Init polls once and starts background polling if it is not running yet.
// Polling starts even when the first read fails.
func (p *PollerService) Init(ctx context.Context) error {
	_, err := p.Poll(ctx)
	p.startPolling()
	return err
}

// Run polls every interval until ctx is canceled.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, interval)
			_, _ = p.Poll(pctx)
			cancel()
		}
	}
}

// Polling reports whether background polling is active.
func (p *PollerService) Polling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polling
}

// Close stops background polling.
func (p *PollerService) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.polling = false
}

func (p *PollerService) startPolling() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.polling {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.polling = true
	go p.Run(ctx, p.interval)
	p.log.Infow("relay_polling_started", "interval", p.interval)
}

func (p *PollerService) record(state, prev models.CupState) {
	if p.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventWriteTimeout)
	defer cancel()
	if err := p.events.Append(ctx, models.CupEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventPoll,
		Description: "Relay reports " + upper(state),
		Metadata:    map[string]any{"from": prev, "to": state},
	}); err != nil {
		p.log.Warnw("event_append_failed", "type", models.EventPoll, "err", err)
	}
}
