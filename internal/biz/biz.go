// Package biz contains business logic layer implementations.
// Every usecase publishes through EventPublisher and never observes publish failures.
package biz

import (
	"ZevaroCore/internal/data"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	ProvideEventPublisher,
	NewAuditUsecase,
	NewNotificationUsecase,
	NewWorkflowUsecase,
	NewGatewayStatsUsecase,
	// Bind data layer implementations to biz layer interfaces
	wire.Bind(new(AuditRepo), new(*data.AuditLogRepo)),
	wire.Bind(new(StatsRepo), new(*data.PublisherStatsRepo)),
)
