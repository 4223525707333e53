package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	// ErrPayloadEncoding is reported when an event payload cannot be encoded.
	ErrPayloadEncoding = errors.New("event payload encoding failed")
	// ErrProducerPanic is reported when the producer client panics during submission.
	ErrProducerPanic = errors.New("event producer panicked")
)

// ProducerClient is the part of *kgo.Client the dispatcher needs.
// TryProduce never blocks: a full buffer fails the record with kgo.ErrMaxBuffered.
type ProducerClient interface {
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// DispatchListener receives the outcome of every dispatch. Calls arrive on
// the producer client's goroutines, concurrently with new dispatches.
type DispatchListener interface {
	OnDispatchSuccess()
	OnDispatchFailure(ctx context.Context, topic string, err error)
}

// BrokerDispatcher hands encoded events to the producer client and reports
// the outcome to its listener. It does not retry.
type BrokerDispatcher struct {
	client   ProducerClient
	listener DispatchListener
}

// NewBrokerDispatcher creates a dispatcher reporting to listener.
func NewBrokerDispatcher(client ProducerClient, listener DispatchListener) *BrokerDispatcher {
	return &BrokerDispatcher{
		client:   client,
		listener: listener,
	}
}

// Dispatch submits one event and returns without waiting for the broker.
// Encoding errors and panics during submission are reported as failures, the
// same way an asynchronous delivery failure is.
func (d *BrokerDispatcher) Dispatch(ctx context.Context, topic, key string, payload interface{}) {
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if r := recover(); r != nil {
			d.listener.OnDispatchFailure(ctx, topic, fmt.Errorf("%w: %v", ErrProducerPanic, r))
		}
	}()

	// 请求结束后仍需完成投递，只保留 ctx 中的值
	ctx = context.WithoutCancel(ctx)

	value, err := encodePayload(payload)
	if err != nil {
		d.listener.OnDispatchFailure(ctx, topic, err)
		return
	}

	record := &kgo.Record{Topic: topic, Value: value}
	if key != "" {
		record.Key = []byte(key)
	}

	d.client.TryProduce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			d.listener.OnDispatchFailure(ctx, topic, err)
			return
		}
		d.listener.OnDispatchSuccess()
	})
}

// encodePayload passes raw bytes and strings through and JSON-encodes everything else.
func encodePayload(payload interface{}) ([]byte, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}

	value, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadEncoding, err)
	}
	return value, nil
}
