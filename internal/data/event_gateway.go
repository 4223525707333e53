package data

import (
	"context"
	"sync/atomic"
	"time"

	"ZevaroCore/pkg/breaker"
	pkglog "ZevaroCore/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// ResilientEventGateway publishes events through a BrokerDispatcher guarded by
// a circuit breaker. Send never blocks and never reports an error: while the
// circuit is open events are dropped and counted.
//
//	CLOSED --[threshold consecutive failures]--> OPEN
//	OPEN   --[reset window elapsed, next Send]--> trial
//	trial  --[success]--> CLOSED
//	trial  --[failure]--> OPEN (window restarts)
type ResilientEventGateway struct {
	gate        *breaker.Gate
	diagnostics *breaker.Diagnostics
	dispatcher  *BrokerDispatcher

	// dropped is the lifetime total, never reset.
	dropped atomic.Int64

	recorder CircuitRecorder

	log *pkglog.LogHelper
	now func() time.Time
}

// GatewayOption configures a ResilientEventGateway.
type GatewayOption func(*gatewayOptions)

type gatewayOptions struct {
	now      func() time.Time
	recorder CircuitRecorder
}

// WithGatewayClock overrides the time source of the gateway and its breaker.
func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(o *gatewayOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCircuitRecorder persists circuit transitions through r.
func WithCircuitRecorder(r CircuitRecorder) GatewayOption {
	return func(o *gatewayOptions) {
		o.recorder = r
	}
}

// NewResilientEventGateway creates a gateway in the CLOSED state.
func NewResilientEventGateway(client ProducerClient, settings breaker.Settings, summaryInterval time.Duration, logger log.Logger, opts ...GatewayOption) *ResilientEventGateway {
	o := gatewayOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	g := &ResilientEventGateway{
		gate:        breaker.NewGate(settings, breaker.WithClock(o.now)),
		diagnostics: breaker.NewDiagnostics(summaryInterval),
		recorder:    o.recorder,
		log:         pkglog.NewLogHelper(log.With(logger, "module", "data/event-gateway")),
		now:         o.now,
	}
	g.dispatcher = NewBrokerDispatcher(client, g)
	return g
}

// Send publishes payload to topic with the given partition key.
func (g *ResilientEventGateway) Send(ctx context.Context, topic, key string, payload interface{}) {
	if g.gate.TryAcquire() == breaker.Rejected {
		g.drop(topic)
		return
	}
	g.dispatcher.Dispatch(ctx, topic, key, payload)
}

// DroppedEventCount returns how many events were rejected by the open circuit
// since the gateway was created.
func (g *ResilientEventGateway) DroppedEventCount() int64 {
	return g.dropped.Load()
}

// IsOpen reports whether the circuit is open.
func (g *ResilientEventGateway) IsOpen() bool {
	return g.gate.IsOpen()
}

// Snapshot exposes the breaker state for health checks and stats.
func (g *ResilientEventGateway) Snapshot() breaker.Snapshot {
	return g.gate.Snapshot()
}

func (g *ResilientEventGateway) drop(topic string) {
	g.dropped.Add(1)
	droppedSinceOpen := g.gate.RecordDrop()

	// 熔断已关闭时不占用摘要窗口
	openedAt, open := g.gate.OpenedAt()
	if !open {
		return
	}
	now := g.now()
	if !g.diagnostics.ShouldEmitSummary(now) {
		return
	}

	s := breaker.NewSummary(droppedSinceOpen, openedAt, now, g.gate.Settings().ResetTimeout)
	g.log.DroppedSummary(s.DroppedSinceOpen,
		breaker.FormatDuration(s.Downtime),
		breaker.FormatDuration(s.UntilRetry),
		"topic", topic,
		"dropped_total", g.dropped.Load())
}

// OnDispatchSuccess implements DispatchListener.
func (g *ResilientEventGateway) OnDispatchSuccess() {
	recovery, recovered := g.gate.OnSuccess()
	if !recovered {
		return
	}
	g.log.CircuitRecovered(recovery.DroppedWhileOpen,
		breaker.FormatDuration(recovery.Downtime),
		"opened_at", recovery.OpenedAt.UTC().Format(time.RFC3339))
	if g.recorder != nil {
		g.recorder.CircuitRecovered(recovery)
	}
}

// OnDispatchFailure implements DispatchListener.
func (g *ResilientEventGateway) OnDispatchFailure(ctx context.Context, topic string, err error) {
	report := g.gate.OnFailure()

	// 只记录连续失败中的第一次，避免故障期间刷屏
	if report.ConsecutiveFailures == 1 && !report.TrialFailed && (report.Opened || !g.gate.IsOpen()) {
		g.log.BrokerFailure(ctx, topic, err)
	}

	if report.Opened {
		reset := g.gate.Settings().ResetTimeout
		g.log.CircuitOpened(report.ConsecutiveFailures,
			breaker.FormatDuration(reset),
			err,
			"topic", topic,
			"trial_failed", report.TrialFailed)
		if g.recorder != nil {
			g.recorder.CircuitOpened(report, reset, err)
		}
	}
}
