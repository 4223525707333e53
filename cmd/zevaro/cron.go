package main

import (
	"context"
	"time"

	"ZevaroCore/internal/biz"
	"ZevaroCore/internal/conf"
	"ZevaroCore/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// statsJobTimeout bounds a single snapshot run
const statsJobTimeout = 10 * time.Second

// StatsJob 定时刷新健康状态并把网关统计快照写入 Redis
// 默认每分钟执行一次（0 * * * * *，秒 分 时 日 月 周）
type StatsJob struct {
	cron     *cron.Cron
	schedule string
	enabled  bool
	stats    *biz.GatewayStatsUsecase
	health   *service.HealthService
	logger   *log.Helper
}

// NewStatsJob creates the stats snapshot job. It does not start it.
func NewStatsJob(c *conf.Stats, stats *biz.GatewayStatsUsecase, health *service.HealthService, logger log.Logger) *StatsJob {
	j := &StatsJob{
		cron:    cron.New(cron.WithSeconds()),
		stats:   stats,
		health:  health,
		logger:  log.NewHelper(log.With(logger, "module", "cmd/stats-job")),
		enabled: c != nil && c.Enabled,
	}
	if c != nil {
		j.schedule = c.Schedule
	}
	return j
}

// Run refreshes health and stores one snapshot.
func (j *StatsJob) Run(ctx context.Context) {
	j.health.Refresh()

	ctx, cancel := context.WithTimeout(ctx, statsJobTimeout)
	defer cancel()

	if _, err := j.stats.Snapshot(ctx); err != nil {
		j.logger.Warnw("msg", "gateway stats snapshot failed", "error", err)
	}
}

// Start registers the schedule and starts the cron. A disabled or invalid
// schedule only logs; the gateway keeps serving.
func (j *StatsJob) Start() {
	if !j.enabled {
		j.logger.Info("gateway stats job disabled")
		return
	}

	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		j.logger.Errorw("msg", "failed to register gateway stats cron job", "schedule", j.schedule, "error", err)
		return
	}

	j.cron.Start()
	j.logger.Infow("msg", "gateway stats cron job started", "schedule", j.schedule)
}

// Stop stops the cron and waits for a running snapshot to finish.
func (j *StatsJob) Stop() {
	<-j.cron.Stop().Done()
}
