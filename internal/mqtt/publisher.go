package mqtt

import (
	"context"
	"sync"
	"time"

	"cup_controller/internal/logger"
	"cup_controller/internal/models"
)

// Sink is the publishing half of Client.
type Sink interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// StatePublisher mirrors store snapshots to MQTT. Notify never blocks: only
// the latest pending snapshot is kept and Run publishes it.
type StatePublisher struct {
	sink   Sink
	topics Topics
	qos    byte
	log    *logger.Logger

	mu         sync.Mutex
	pending    *models.StateData
	historySeq uint64
	wake       chan struct{}
}

func NewStatePublisher(sink Sink, topics Topics, qos byte, log *logger.Logger) *StatePublisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &StatePublisher{
		sink:   sink,
		topics: topics,
		qos:    qos,
		log:    log,
		wake:   make(chan struct{}, 1),
	}
}

// Notify queues s for publishing. It has the store.Listener signature.
func (p *StatePublisher) Notify(s models.StateData) {
	p.mu.Lock()
	p.pending = &s
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run publishes queued snapshots until ctx is canceled.
func (p *StatePublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
			p.flush()
		}
	}
}

func (p *StatePublisher) flush() {
	p.mu.Lock()
	s := p.pending
	p.pending = nil
	p.mu.Unlock()
	if s == nil {
		return
	}

	payload, err := buildStatePayload(*s, time.Now())
	if err != nil {
		p.log.Warnw("mqtt_encode_failed", "err", err)
		return
	}
	if err := p.sink.Publish(p.topics.CupState(), payload, p.qos, true); err != nil {
		p.log.Warnw("mqtt_publish_failed", "topic", p.topics.CupState(), "err", err)
	}

	for _, e := range p.newHistory(*s) {
		payload, err := buildHistoryPayload(e, s.CycleExecution)
		if err != nil {
			p.log.Warnw("mqtt_encode_failed", "err", err)
			continue
		}
		if err := p.sink.Publish(p.topics.CupHistory(), payload, p.qos, false); err != nil {
			p.log.Warnw("mqtt_publish_failed", "topic", p.topics.CupHistory(), "err", err)
		}
	}
}

// newHistory returns entries appended since the last published snapshot.
func (p *StatePublisher) newHistory(s models.StateData) []models.HistoryEntry {
	fresh := s.HistorySince(p.historySeq)
	if s.HistorySeq > p.historySeq {
		p.historySeq = s.HistorySeq
	}
	return fresh
}
