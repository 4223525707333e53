// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files and environment variables.
package conf

import (
	"fmt"
	"strings"
	"time"

	"ZevaroCore/pkg/breaker"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// NewBootstrap loads configuration from configPath, applies defaults and
// allows overrides from environment variables prefixed with ZEVARO_.
//
// Configuration priority: Environment variables > Config file > Defaults
//
// Compatibility environment variables:
//   - MYSQL_DSN: MySQL connection string for audit persistence (optional)
//   - KAFKA_BROKERS: comma separated seed brokers
//   - EVENT_BROKER_ENABLED: selects the resilient or the disabled gateway
func NewBootstrap(configPath string) (*Bootstrap, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("ZEVARO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("data.database.source", "MYSQL_DSN", "ZEVARO_DATA_DATABASE_SOURCE")
	_ = v.BindEnv("data.redis.addr", "ZEVARO_DATA_REDIS_ADDR")
	_ = v.BindEnv("data.redis.password", "REDIS_PASSWORD", "ZEVARO_DATA_REDIS_PASSWORD")
	_ = v.BindEnv("broker.brokers", "KAFKA_BROKERS", "ZEVARO_BROKER_BROKERS")
	_ = v.BindEnv("broker.enabled", "EVENT_BROKER_ENABLED", "ZEVARO_BROKER_ENABLED")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	bc := &Bootstrap{
		Server: &Server{
			HTTP: &ServerHTTP{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: v.GetDuration("server.http.timeout"),
			},
			GRPC: &ServerGRPC{
				Network: v.GetString("server.grpc.network"),
				Addr:    v.GetString("server.grpc.addr"),
				Timeout: v.GetDuration("server.grpc.timeout"),
			},
		},
		Data: &Data{
			Database: &Database{
				Driver: v.GetString("data.database.driver"),
				Source: v.GetString("data.database.source"),
			},
			Redis: &Redis{
				Network:      v.GetString("data.redis.network"),
				Addr:         v.GetString("data.redis.addr"),
				Password:     v.GetString("data.redis.password"),
				DB:           v.GetInt("data.redis.db"),
				ReadTimeout:  v.GetDuration("data.redis.read_timeout"),
				WriteTimeout: v.GetDuration("data.redis.write_timeout"),
			},
		},
		Broker: &Broker{
			Enabled:            v.GetBool("broker.enabled"),
			Brokers:            splitList(v.GetStringSlice("broker.brokers")),
			ClientID:           v.GetString("broker.client_id"),
			FailureThreshold:   v.GetInt64("broker.failure_threshold"),
			ResetTimeout:       v.GetDuration("broker.reset_timeout"),
			SummaryLogInterval: v.GetDuration("broker.summary_log_interval"),
			MaxBufferedRecords: v.GetInt("broker.max_buffered_records"),
			ProduceLinger:      v.GetDuration("broker.produce_linger"),
			Compression:        strings.ToLower(v.GetString("broker.compression")),
			DeliveryTimeout:    v.GetDuration("broker.delivery_timeout"),
			FlushTimeout:       v.GetDuration("broker.flush_timeout"),
		},
		Stats: &Stats{
			Enabled:   v.GetBool("stats.enabled"),
			Schedule:  v.GetString("stats.schedule"),
			TTL:       v.GetDuration("stats.ttl"),
			KeyPrefix: v.GetString("stats.key_prefix"),
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
	}

	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 30*time.Second)

	v.SetDefault("server.grpc.network", "tcp")
	v.SetDefault("server.grpc.addr", ":9000")
	v.SetDefault("server.grpc.timeout", 30*time.Second)

	v.SetDefault("data.database.driver", "mysql")
	// Note: data.database.source (MYSQL_DSN) is optional; audit persistence is skipped without it

	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.addr", "127.0.0.1:6379")
	v.SetDefault("data.redis.db", 0)
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)

	v.SetDefault("broker.enabled", true)
	v.SetDefault("broker.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("broker.client_id", "zevaro-core")
	v.SetDefault("broker.failure_threshold", breaker.DefaultFailureThreshold)
	v.SetDefault("broker.reset_timeout", breaker.DefaultResetTimeout)
	v.SetDefault("broker.summary_log_interval", breaker.DefaultSummaryLogInterval)
	v.SetDefault("broker.max_buffered_records", 10000)
	v.SetDefault("broker.produce_linger", 5*time.Millisecond)
	v.SetDefault("broker.compression", "snappy")
	v.SetDefault("broker.delivery_timeout", 30*time.Second)
	v.SetDefault("broker.flush_timeout", 10*time.Second)

	v.SetDefault("stats.enabled", true)
	v.SetDefault("stats.schedule", "0 * * * * *")
	v.SetDefault("stats.ttl", 5*time.Minute)
	v.SetDefault("stats.key_prefix", "event_gateway:stats")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks configuration consistency.
// It returns an error listing every invalid field.
func Validate(bc *Bootstrap) error {
	var problems []string

	if bc.Broker == nil {
		problems = append(problems, "broker section is required")
	} else {
		if bc.Broker.Enabled && len(bc.Broker.Brokers) == 0 {
			problems = append(problems, "broker.brokers (KAFKA_BROKERS) is required when broker.enabled is true")
		}
		settings := breaker.Settings{
			FailureThreshold: bc.Broker.FailureThreshold,
			ResetTimeout:     bc.Broker.ResetTimeout,
		}
		if err := settings.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
		if bc.Broker.SummaryLogInterval < 0 {
			problems = append(problems, "broker.summary_log_interval must not be negative")
		}
		switch bc.Broker.Compression {
		case "", "none", "gzip", "snappy", "lz4", "zstd":
		default:
			problems = append(problems, fmt.Sprintf("broker.compression %q is not supported", bc.Broker.Compression))
		}
	}

	if bc.Log != nil && bc.Log.Level != "" {
		if _, err := zapcore.ParseLevel(bc.Log.Level); err != nil {
			problems = append(problems, fmt.Sprintf("log.level %q is invalid", bc.Log.Level))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

// splitList flattens comma separated entries, which is how list values arrive
// from environment variables.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
