package biz

import (
	"context"
	"os"
	"time"

	"ZevaroCore/internal/model"
	pkglog "ZevaroCore/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// StatsRepo stores gateway snapshots.
type StatsRepo interface {
	Save(ctx context.Context, stats *model.GatewayStats) error
}

// GatewayStatsUsecase snapshots the publisher state for operators.
type GatewayStatsUsecase struct {
	publisher EventPublisher
	repo      StatsRepo
	instance  string
	log       *pkglog.LogHelper
}

// NewGatewayStatsUsecase creates the usecase. The instance name is the host name.
func NewGatewayStatsUsecase(publisher EventPublisher, repo StatsRepo, logger log.Logger) *GatewayStatsUsecase {
	instance, err := os.Hostname()
	if err != nil || instance == "" {
		instance = "unknown"
	}
	return &GatewayStatsUsecase{
		publisher: publisher,
		repo:      repo,
		instance:  instance,
		log:       pkglog.NewLogHelper(log.With(logger, "module", "biz/stats")),
	}
}

// Current returns the live publisher state.
func (uc *GatewayStatsUsecase) Current() *model.GatewayStats {
	return &model.GatewayStats{
		Instance:     uc.instance,
		DroppedTotal: uc.publisher.DroppedEventCount(),
		CircuitOpen:  uc.publisher.IsOpen(),
		UpdatedAt:    time.Now().UTC(),
	}
}

// Snapshot stores the live state and returns it.
func (uc *GatewayStatsUsecase) Snapshot(ctx context.Context) (*model.GatewayStats, error) {
	stats := uc.Current()
	if err := uc.repo.Save(ctx, stats); err != nil {
		return stats, err
	}
	uc.log.Stats("gateway stats snapshot saved",
		"instance", stats.Instance,
		"dropped_total", stats.DroppedTotal,
		"circuit_open", stats.CircuitOpen)
	return stats, nil
}
