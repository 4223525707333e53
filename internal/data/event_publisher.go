package data

import (
	"context"

	"ZevaroCore/internal/conf"
	"ZevaroCore/pkg/breaker"
	pkglog "ZevaroCore/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher is implemented by both event gateways.
type Publisher interface {
	Send(ctx context.Context, topic, key string, payload interface{})
	DroppedEventCount() int64
	IsOpen() bool
}

var (
	_ Publisher        = (*ResilientEventGateway)(nil)
	_ Publisher        = (*DisabledEventGateway)(nil)
	_ DispatchListener = (*ResilientEventGateway)(nil)
	_ ProducerClient   = (*kgo.Client)(nil)
	_ CircuitRecorder  = (*CircuitAuditRecorder)(nil)
)

// NewEventPublisher selects the gateway once at startup. A disabled broker, or
// a missing client, yields the DisabledEventGateway. recorder may be nil.
func NewEventPublisher(c *conf.Broker, recorder *CircuitAuditRecorder, client *kgo.Client, logger log.Logger) Publisher {
	helper := pkglog.NewLogHelper(logger)

	if c == nil || !c.Enabled || client == nil {
		helper.Startup("Event publishing disabled, events will be dropped", "broker_enabled", c != nil && c.Enabled)
		return NewDisabledEventGateway(logger)
	}

	settings := breaker.Settings{
		FailureThreshold: c.FailureThreshold,
		ResetTimeout:     c.ResetTimeout,
	}
	var opts []GatewayOption
	if recorder != nil {
		opts = append(opts, WithCircuitRecorder(recorder))
	}
	gw := NewResilientEventGateway(client, settings, c.SummaryLogInterval, logger, opts...)

	effective := gw.gate.Settings()
	helper.Startup("Event publishing enabled",
		"brokers", c.Brokers,
		"failure_threshold", effective.FailureThreshold,
		"reset_timeout", breaker.FormatDuration(effective.ResetTimeout))
	return gw
}
