package data

import (
	"context"
	"os"
	"sync"
	"time"

	"ZevaroCore/internal/model"
	"ZevaroCore/pkg/breaker"

	"github.com/go-kratos/kratos/v2/log"
)

// circuitAuditTimeout bounds one audit insert.
const circuitAuditTimeout = 5 * time.Second

// CircuitRecorder persists circuit transitions of the event gateway.
type CircuitRecorder interface {
	CircuitOpened(report breaker.FailureReport, resetTimeout time.Duration, lastErr error)
	CircuitRecovered(recovery breaker.Recovery)
}

// CircuitAuditRecorder 把熔断状态变更写入审计表
// 只落库不发布：broker 不可用时正是熔断打开的时候
type CircuitAuditRecorder struct {
	repo     *AuditLogRepo
	instance string
	logger   *log.Helper
	wg       sync.WaitGroup
}

// NewCircuitAuditRecorder creates the recorder. The cleanup waits for pending inserts.
func NewCircuitAuditRecorder(repo *AuditLogRepo, logger log.Logger) (*CircuitAuditRecorder, func(), error) {
	instance, err := os.Hostname()
	if err != nil || instance == "" {
		instance = "unknown"
	}
	r := &CircuitAuditRecorder{
		repo:     repo,
		instance: instance,
		logger:   log.NewHelper(log.With(logger, "module", "data/circuit-audit")),
	}
	return r, r.Wait, nil
}

// CircuitOpened implements CircuitRecorder.
func (r *CircuitAuditRecorder) CircuitOpened(report breaker.FailureReport, resetTimeout time.Duration, lastErr error) {
	details := map[string]interface{}{
		"consecutive_failures":  report.ConsecutiveFailures,
		"trial_failed":          report.TrialFailed,
		"reset_timeout_seconds": int64(resetTimeout / time.Second),
	}
	if lastErr != nil {
		details["error"] = lastErr.Error()
	}
	r.save(model.AuditActionCircuitOpened, details, report.OpenedAt)
}

// CircuitRecovered implements CircuitRecorder.
func (r *CircuitAuditRecorder) CircuitRecovered(recovery breaker.Recovery) {
	r.save(model.AuditActionCircuitRecovered, map[string]interface{}{
		"dropped_while_open": recovery.DroppedWhileOpen,
		"downtime_seconds":   int64(recovery.Downtime / time.Second),
		"opened_at":          recovery.OpenedAt.UTC().Format(time.RFC3339),
	}, recovery.OpenedAt.Add(recovery.Downtime))
}

// Wait blocks until every pending insert has finished.
func (r *CircuitAuditRecorder) Wait() {
	r.wg.Wait()
}

// save runs off the caller's goroutine: transitions are reported from the
// producer's promise callbacks, which must not block on MySQL.
func (r *CircuitAuditRecorder) save(action string, details map[string]interface{}, at time.Time) {
	if r.repo == nil || !r.repo.Enabled() {
		return
	}

	entry := &model.AuditEntry{
		TenantID:   model.SystemTenant,
		ActorID:    model.SystemActor,
		Action:     action,
		Resource:   "event_gateway",
		ResourceID: r.instance,
		Details:    details,
		OccurredAt: at.UTC(),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), circuitAuditTimeout)
		defer cancel()

		if err := r.repo.Save(ctx, entry); err != nil {
			r.logger.Warnw("msg", "failed to persist circuit transition", "action", action, "error", err)
		}
	}()
}
