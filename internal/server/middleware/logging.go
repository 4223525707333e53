package middleware

import (
	"context"
	"strings"
	"time"

	pkglog "ZevaroCore/pkg/log"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTenantID  = "X-Tenant-ID"
	HeaderActorID   = "X-Actor-ID"
)

const tenantPathPrefix = "/v1/tenants/"

// acceptedStatus 事件接口均为异步受理，成功时返回 202
const acceptedStatus = 202

// Logging 返回一个记录 HTTP 请求日志的中间件
// 生成或透传 Request ID，注入 Request Context，供事件网关的失败日志关联请求
//
// 日志输出示例:
//
//	🟢 POST /v1/tenants/acme/events - 202 (3ms) | RequestID: mgrn0zfqda
//	🐌 [mgrn0zfqda] Slow request detected | POST /v1/tenants/acme/audit | 1203ms
func Logging(logger *pkglog.LogHelper) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			startTime := time.Now()

			var (
				method    string
				path      string
				ip        string
				userAgent string
				requestID string
				tenantID  string
				actorID   string
			)

			if tr, ok := transport.FromServerContext(ctx); ok {
				method = tr.Kind().String()
				path = tr.Operation()
				requestID = tr.RequestHeader().Get(HeaderRequestID)
				tenantID = tr.RequestHeader().Get(HeaderTenantID)
				actorID = tr.RequestHeader().Get(HeaderActorID)

				if ht, ok := tr.(http.Transporter); ok {
					httpReq := ht.Request()
					method = httpReq.Method
					path = httpReq.URL.Path
					if httpReq.URL.RawQuery != "" {
						path = path + "?" + httpReq.URL.RawQuery
					}
					ip = extractClientIP(httpReq)
					userAgent = httpReq.Header.Get("User-Agent")
					if tenantID == "" {
						tenantID = tenantFromPath(httpReq.URL.Path)
					}
				}
			}
			if requestID == "" {
				requestID = pkglog.GenerateRequestID()
			}

			// 后续日志（包括异步的 broker 失败回调）都从 ctx 提取这些字段
			ctx = pkglog.WithRequestContext(ctx, requestID, tenantID, actorID)
			if tr, ok := transport.FromServerContext(ctx); ok {
				tr.ReplyHeader().Set(HeaderRequestID, requestID)
			}

			reply, err := handler(ctx, req)

			duration := time.Since(startTime).Milliseconds()
			status := extractHTTPStatus(err)

			logger.Request(ctx, method, path, status, duration,
				"ip", ip,
				"user_agent", userAgent,
			)

			return reply, err
		}
	}
}

// extractClientIP 从请求中提取客户端真实 IP
// 优先级: X-Real-IP > X-Forwarded-For > RemoteAddr
func extractClientIP(req *http.Request) string {
	if ip := req.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	return req.RemoteAddr
}

// extractHTTPStatus 从 Kratos 错误中提取 HTTP 状态码，非 Kratos 错误按 500 处理
func extractHTTPStatus(err error) int {
	if err == nil {
		return acceptedStatus
	}
	return int(errors.FromError(err).Code)
}

// tenantFromPath 从 /v1/tenants/{tenant_id}/... 提取租户 ID
func tenantFromPath(p string) string {
	if !strings.HasPrefix(p, tenantPathPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(p, tenantPathPrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
