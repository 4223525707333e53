package log

import (
	"context"
	"math/rand"
	"time"
)

type contextKey string

const requestContextKey contextKey = "zevaro_request_context"

// RequestContext carries request tracing information through a context.
type RequestContext struct {
	RequestID string // 10 位 base36 短 ID，例如 mgrn0zfqda
	TenantID  string
	ActorID   string
	StartTime time.Time
}

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateRequestID 生成 10 位 base36 请求 ID，避免 UUID 的开销
func GenerateRequestID() string {
	b := make([]byte, 10)
	for i := range b {
		b[i] = base36Chars[rand.Intn(len(base36Chars))]
	}
	return string(b)
}

// WithRequestContext stores tracing information in ctx.
func WithRequestContext(ctx context.Context, requestID, tenantID, actorID string) context.Context {
	return context.WithValue(ctx, requestContextKey, &RequestContext{
		RequestID: requestID,
		TenantID:  tenantID,
		ActorID:   actorID,
		StartTime: time.Now(),
	})
}

// GetRequestContext returns the RequestContext stored in ctx, or a placeholder
// with RequestID "unknown" so callers never need a nil check.
func GetRequestContext(ctx context.Context) *RequestContext {
	if ctx != nil {
		if reqCtx, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{RequestID: "unknown"}
}

// GetRequestID 从 Context 中提取 Request ID
func GetRequestID(ctx context.Context) string {
	return GetRequestContext(ctx).RequestID
}

// GetTenantID 从 Context 中提取租户 ID
func GetTenantID(ctx context.Context) string {
	return GetRequestContext(ctx).TenantID
}

// GetElapsedTime 获取请求已执行时间（毫秒）
func GetElapsedTime(ctx context.Context) int64 {
	reqCtx := GetRequestContext(ctx)
	if reqCtx.StartTime.IsZero() {
		return 0
	}
	return time.Since(reqCtx.StartTime).Milliseconds()
}
