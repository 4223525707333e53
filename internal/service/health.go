package service

import (
	"sync/atomic"

	"ZevaroCore/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// EventsHealthService is the gRPC health service name that follows the broker circuit.
const EventsHealthService = "zevaro.events"

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	Status            string `json:"status"`
	BrokerCircuitOpen bool   `json:"broker_circuit_open"`
	DroppedEvents     int64  `json:"dropped_events"`
}

// HealthService reports the event gateway state. A broker outage degrades the
// service but never makes it unhealthy: requests are still served and events
// are dropped.
type HealthService struct {
	publisher  biz.EventPublisher
	grpcHealth *health.Server
	logger     *log.Helper
	lastOpen   atomic.Bool
}

// NewHealthService creates the health service.
func NewHealthService(publisher biz.EventPublisher, logger log.Logger) *HealthService {
	s := &HealthService{
		publisher:  publisher,
		grpcHealth: health.NewServer(),
		logger:     log.NewHelper(log.With(logger, "module", "service/health")),
	}
	s.Refresh()
	return s
}

// GRPCHealth returns the grpc.health.v1 implementation to register on the gRPC server.
func (s *HealthService) GRPCHealth() *health.Server {
	return s.grpcHealth
}

// Refresh reads the publisher state and mirrors it into the gRPC health server.
// The overall service ("") always stays SERVING.
func (s *HealthService) Refresh() HealthStatus {
	st := HealthStatus{
		Status:            StatusOK,
		BrokerCircuitOpen: s.publisher.IsOpen(),
		DroppedEvents:     s.publisher.DroppedEventCount(),
	}

	serving := healthpb.HealthCheckResponse_SERVING
	if st.BrokerCircuitOpen {
		st.Status = StatusDegraded
		serving = healthpb.HealthCheckResponse_NOT_SERVING
	}
	if s.lastOpen.Swap(st.BrokerCircuitOpen) != st.BrokerCircuitOpen {
		s.logger.Infow("msg", "events health changed", "service", EventsHealthService, "status", serving.String())
	}
	s.grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.grpcHealth.SetServingStatus(EventsHealthService, serving)

	return st
}

// Healthz handles GET /healthz. It always answers 200.
func (s *HealthService) Healthz(ctx http.Context) error {
	return ctx.JSON(200, s.Refresh())
}
