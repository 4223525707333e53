package log

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// slowRequestThresholdMs 慢请求阈值（毫秒）
const slowRequestThresholdMs = 1000

// LogHelper 扩展 Kratos log.Helper，按日志类型自动附加 "type" 字段
type LogHelper struct {
	*log.Helper
}

// NewLogHelper 创建增强的日志辅助器
func NewLogHelper(logger log.Logger) *LogHelper {
	return &LogHelper{
		Helper: log.NewHelper(logger),
	}
}

func withType(msg, logType string, kvs []interface{}) []interface{} {
	all := make([]interface{}, 0, len(kvs)+4)
	all = append(all, "msg", msg)
	all = append(all, kvs...)
	return append(all, "type", logType)
}

// Startup 记录启动日志（🚀）
func (h *LogHelper) Startup(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "startup", kvs)...)
}

// Success 记录成功操作日志（✅）
func (h *LogHelper) Success(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "success", kvs)...)
}

// Database 记录数据库操作日志（💾）
func (h *LogHelper) Database(msg string, kvs ...interface{}) {
	h.Debugw(withType(msg, "database", kvs)...)
}

// Redis 记录 Redis 操作日志（📦）
func (h *LogHelper) Redis(msg string, kvs ...interface{}) {
	h.Debugw(withType(msg, "redis", kvs)...)
}

// Stats 记录统计快照日志（📊）
func (h *LogHelper) Stats(msg string, kvs ...interface{}) {
	h.Debugw(withType(msg, "stats", kvs)...)
}

// Audit 记录审计日志（📋）
func (h *LogHelper) Audit(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "audit", kvs)...)
}

// Workflow 记录工作流状态变更日志（🔀）
func (h *LogHelper) Workflow(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "workflow", kvs)...)
}

// Notification 记录领域事件通知日志（🔔）
func (h *LogHelper) Notification(msg string, kvs ...interface{}) {
	h.Debugw(withType(msg, "notification", kvs)...)
}

// BrokerFailure logs a single failed publish (📨). The gateway calls it only
// for the first failure of a run so an outage does not flood the log.
func (h *LogHelper) BrokerFailure(ctx context.Context, topic string, err error, kvs ...interface{}) {
	reqCtx := GetRequestContext(ctx)
	msg := fmt.Sprintf("Event publish failed | topic: %s", topic)
	all := append([]interface{}{
		"topic", topic,
		"request_id", reqCtx.RequestID,
		"tenant_id", reqCtx.TenantID,
		"error", err,
	}, kvs...)
	h.Warnw(withType(msg, "broker", all)...)
}

// CircuitOpened logs the CLOSED->OPEN transition (🔌).
func (h *LogHelper) CircuitOpened(failures int64, resetWindow string, lastErr error, kvs ...interface{}) {
	msg := fmt.Sprintf("Event broker circuit opened after %d consecutive failures, dropping events for %s", failures, resetWindow)
	all := append([]interface{}{
		"consecutive_failures", failures,
		"reset_window", resetWindow,
		"error", lastErr,
	}, kvs...)
	h.Errorw(withType(msg, "circuit", all)...)
}

// CircuitRecovered logs the OPEN->CLOSED transition (🔌).
func (h *LogHelper) CircuitRecovered(dropped int64, downtime string, kvs ...interface{}) {
	msg := fmt.Sprintf("Event broker circuit closed, %d events dropped while open (downtime %s)", dropped, downtime)
	all := append([]interface{}{
		"dropped_while_open", dropped,
		"downtime", downtime,
	}, kvs...)
	h.Infow(withType(msg, "circuit", all)...)
}

// DroppedSummary logs the rate-limited outage summary (🗑️).
func (h *LogHelper) DroppedSummary(dropped int64, downtime, untilRetry string, kvs ...interface{}) {
	msg := fmt.Sprintf("Event broker unavailable | dropped: %d | down: %s | next retry in: %s", dropped, downtime, untilRetry)
	all := append([]interface{}{
		"dropped_since_open", dropped,
		"downtime", downtime,
		"next_retry_in", untilRetry,
	}, kvs...)
	h.Warnw(withType(msg, "dropped", all)...)
}

// Request 记录 HTTP 请求日志，超过阈值时追加慢请求警告（🌐 / 🐌）
func (h *LogHelper) Request(ctx context.Context, method, url string, status int, durationMs int64, kvs ...interface{}) {
	reqCtx := GetRequestContext(ctx)
	msg := fmt.Sprintf("%s %s - %d (%dms) | RequestID: %s", method, url, status, durationMs, reqCtx.RequestID)

	all := append([]interface{}{
		"request_id", reqCtx.RequestID,
		"tenant_id", reqCtx.TenantID,
		"method", method,
		"url", url,
		"status", status,
		"duration_ms", durationMs,
	}, kvs...)
	h.Infow(withType(msg, "request", all)...)

	if durationMs > slowRequestThresholdMs {
		slowMsg := fmt.Sprintf("[%s] Slow request detected | %s %s | %dms (threshold: %dms)",
			reqCtx.RequestID, method, url, durationMs, slowRequestThresholdMs)
		h.Warnw(withType(slowMsg, "slow_request", []interface{}{
			"request_id", reqCtx.RequestID,
			"duration_ms", durationMs,
			"threshold_ms", slowRequestThresholdMs,
		})...)
	}
}
