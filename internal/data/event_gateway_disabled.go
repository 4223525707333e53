package data

import (
	"context"
	"sync/atomic"

	pkglog "ZevaroCore/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// DisabledEventGateway is used when the broker is turned off. Every event is
// dropped and counted locally; there is no I/O and no breaker.
type DisabledEventGateway struct {
	dropped atomic.Int64
	log     *pkglog.LogHelper
}

// NewDisabledEventGateway creates the no-op publisher.
func NewDisabledEventGateway(logger log.Logger) *DisabledEventGateway {
	return &DisabledEventGateway{
		log: pkglog.NewLogHelper(log.With(logger, "module", "data/event-gateway")),
	}
}

// Send drops the event.
func (g *DisabledEventGateway) Send(_ context.Context, topic, _ string, _ interface{}) {
	if g.dropped.Add(1) == 1 {
		g.log.Debugw("msg", "event broker disabled, dropping events", "topic", topic, "type", "dropped")
	}
}

// DroppedEventCount returns the number of events dropped.
func (g *DisabledEventGateway) DroppedEventCount() int64 {
	return g.dropped.Load()
}

// IsOpen is always true: a disabled broker looks like a permanently open circuit.
func (g *DisabledEventGateway) IsOpen() bool {
	return true
}
