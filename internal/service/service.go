// Package service exposes the usecases over HTTP and reports gateway health.
package service

import "github.com/google/wire"

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewHealthService,
	NewEventService,
)
