package biz

import (
	"context"
	"errors"
	"sync"

	"ZevaroCore/internal/model"
)

type sentEvent struct {
	topic   string
	key     string
	payload interface{}
}

// recordingPublisher records every Send and never fails, like the real gateways.
type recordingPublisher struct {
	mu     sync.Mutex
	events []sentEvent
	open   bool
}

func (p *recordingPublisher) Send(_ context.Context, topic, key string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sentEvent{topic: topic, key: key, payload: payload})
}

func (p *recordingPublisher) DroppedEventCount() int64 { return 0 }
func (p *recordingPublisher) IsOpen() bool             { return p.open }

func (p *recordingPublisher) sent() []sentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentEvent(nil), p.events...)
}

type fakeAuditRepo struct {
	enabled bool
	err     error
	saved   []*model.AuditEntry
}

func (r *fakeAuditRepo) Save(_ context.Context, entry *model.AuditEntry) error {
	if r.err != nil {
		return r.err
	}
	entry.ID = int64(len(r.saved) + 1)
	r.saved = append(r.saved, entry)
	return nil
}

func (r *fakeAuditRepo) Enabled() bool { return r.enabled }

type fakeStatsRepo struct {
	err   error
	saved []*model.GatewayStats
}

func (r *fakeStatsRepo) Save(_ context.Context, stats *model.GatewayStats) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, stats)
	return nil
}

var errDBDown = errors.New("dial tcp 10.0.0.5:3306: connect: connection refused")
