package data

import (
	"context"
	"fmt"

	"ZevaroCore/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/twmb/franz-go/pkg/kgo"
)

// NewKafkaClient creates the franz-go producer client.
// It does not contact the brokers: an unavailable cluster must not prevent
// startup, the event gateway absorbs the outage instead.
// A disabled broker returns a nil client and a no-op cleanup.
func NewKafkaClient(c *conf.Broker, logger log.Logger) (*kgo.Client, func(), error) {
	helper := log.NewHelper(logger)

	if c == nil || !c.Enabled {
		helper.Warn("event broker disabled, skipping Kafka client initialization")
		return nil, func() {}, nil
	}

	codec, err := compressionCodec(c.Compression)
	if err != nil {
		return nil, nil, err
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(c.Brokers...),
		kgo.ProducerBatchCompression(codec),
		kgo.WithLogger(&kgoLogAdapter{helper: helper}),
	}
	if c.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.ClientID))
	}
	if c.MaxBufferedRecords > 0 {
		opts = append(opts, kgo.MaxBufferedRecords(c.MaxBufferedRecords))
	}
	if c.ProduceLinger > 0 {
		opts = append(opts, kgo.ProducerLinger(c.ProduceLinger))
	}
	if c.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(c.DeliveryTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		helper.Errorf("failed to create Kafka client: %v", err)
		return nil, nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	helper.Infof("Kafka producer client created for brokers %v", c.Brokers)

	cleanup := func() {
		ctx := context.Background()
		if c.FlushTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.FlushTimeout)
			defer cancel()
		}

		helper.Info("flushing buffered events before closing Kafka client")
		if err := client.Flush(ctx); err != nil {
			helper.Warnf("failed to flush Kafka client: %v (buffered events are lost)", err)
		}
		client.Close()
	}

	return client, cleanup, nil
}

func compressionCodec(name string) (kgo.CompressionCodec, error) {
	switch name {
	case "", "none":
		return kgo.NoCompression(), nil
	case "gzip":
		return kgo.GzipCompression(), nil
	case "snappy":
		return kgo.SnappyCompression(), nil
	case "lz4":
		return kgo.Lz4Compression(), nil
	case "zstd":
		return kgo.ZstdCompression(), nil
	default:
		return kgo.CompressionCodec{}, fmt.Errorf("unsupported compression %q", name)
	}
}

// kgoLogAdapter adapts Kratos log.Helper to the franz-go kgo.Logger interface.
type kgoLogAdapter struct {
	helper *log.Helper
}

// Level implements kgo.Logger. Client internals below warn are not interesting here.
func (k *kgoLogAdapter) Level() kgo.LogLevel {
	return kgo.LogLevelWarn
}

// Log implements kgo.Logger.
func (k *kgoLogAdapter) Log(level kgo.LogLevel, msg string, keyvals ...interface{}) {
	kvs := append([]interface{}{"msg", "kafka: " + msg}, keyvals...)
	switch level {
	case kgo.LogLevelError:
		k.helper.Errorw(kvs...)
	case kgo.LogLevelWarn:
		k.helper.Warnw(kvs...)
	case kgo.LogLevelInfo:
		k.helper.Infow(kvs...)
	case kgo.LogLevelDebug:
		k.helper.Debugw(kvs...)
	}
}
