package biz

import (
	"context"

	"ZevaroCore/internal/data"
)

// EventPublisher publishes events to the broker without ever blocking or
// failing the caller. Delivery is not guaranteed: callers must treat Send as
// fire-and-forget and observe outages through DroppedEventCount and IsOpen.
type EventPublisher interface {
	// Send publishes payload to topic. key is the partition key, normally the tenant id.
	Send(ctx context.Context, topic, key string, payload interface{})
	// DroppedEventCount is the lifetime number of events dropped.
	DroppedEventCount() int64
	// IsOpen reports whether the broker is currently considered unavailable.
	IsOpen() bool
}

// ProvideEventPublisher exposes the gateway chosen by data.NewEventPublisher
// under the biz interface.
func ProvideEventPublisher(p data.Publisher) EventPublisher {
	return p
}
