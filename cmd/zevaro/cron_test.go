package main

import (
	"context"
	"io"
	"os"
	"testing"

	"ZevaroCore/internal/biz"
	"ZevaroCore/internal/conf"
	"ZevaroCore/internal/data"
	"ZevaroCore/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStatsJob(t *testing.T, c *conf.Stats) (*StatsJob, *miniredis.Miniredis, data.Publisher) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := log.NewStdLogger(io.Discard)
	d, cleanup, err := data.NewData(&conf.Data{}, logger, rdb, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	gateway := data.NewDisabledEventGateway(logger)
	publisher := biz.ProvideEventPublisher(gateway)
	stats := biz.NewGatewayStatsUsecase(publisher, data.NewPublisherStatsRepo(d, c, logger), logger)
	health := service.NewHealthService(publisher, logger)

	return NewStatsJob(c, stats, health, logger), mr, gateway
}

func TestStatsJob_RunSavesSnapshot(t *testing.T) {
	job, mr, gateway := newTestStatsJob(t, &conf.Stats{Enabled: true, Schedule: "0 * * * * *", KeyPrefix: "gw"})
	gateway.Send(context.Background(), "zevaro.audit", "acme", nil)
	gateway.Send(context.Background(), "zevaro.audit", "acme", nil)

	job.Run(context.Background())

	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	key := "gw:" + host
	assert.Equal(t, "2", mr.HGet(key, "dropped_total"))
	assert.Equal(t, "true", mr.HGet(key, "circuit_open"))
	assert.Positive(t, mr.TTL(key))
}

func TestStatsJob_RunToleratesRedisOutage(t *testing.T) {
	job, mr, _ := newTestStatsJob(t, &conf.Stats{Enabled: true, Schedule: "0 * * * * *"})
	mr.Close()

	assert.NotPanics(t, func() { job.Run(context.Background()) })
}

func TestStatsJob_StartStop(t *testing.T) {
	tests := []struct {
		name        string
		c           *conf.Stats
		wantEntries int
	}{
		{"enabled", &conf.Stats{Enabled: true, Schedule: "0 * * * * *"}, 1},
		{"disabled", &conf.Stats{Enabled: false, Schedule: "0 * * * * *"}, 0},
		{"invalid_schedule", &conf.Stats{Enabled: true, Schedule: "every minute"}, 0},
		{"nil_config", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, _, _ := newTestStatsJob(t, tt.c)

			job.Start()
			assert.Len(t, job.cron.Entries(), tt.wantEntries)
			job.Stop()
		})
	}
}
