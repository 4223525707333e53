package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkglog "ZevaroCore/pkg/log"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLoggedServer registers a single route whose handler runs through the
// Logging middleware and hands the request context to inspect.
func newLoggedServer(buf *bytes.Buffer, handlerErr error, inspect func(context.Context)) *khttp.Server {
	helper := pkglog.NewLogHelper(log.NewStdLogger(buf))
	srv := khttp.NewServer(khttp.Middleware(Logging(helper)))
	srv.Route("/").POST("/v1/tenants/{tenant_id}/events", func(ctx khttp.Context) error {
		khttp.SetOperation(ctx, "/test/Publish")
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			inspect(ctx)
			if handlerErr != nil {
				return nil, handlerErr
			}
			return map[string]string{}, nil
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(202, out)
	})
	return srv
}

func TestLogging_InjectsRequestContext(t *testing.T) {
	var (
		buf bytes.Buffer
		got *pkglog.RequestContext
	)
	srv := newLoggedServer(&buf, nil, func(ctx context.Context) {
		got = pkglog.GetRequestContext(ctx)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/acme/events", strings.NewReader("{}"))
	req.Header.Set(HeaderRequestID, "req0000001")
	req.Header.Set(HeaderActorID, "u-42")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "req0000001", got.RequestID)
	assert.Equal(t, "acme", got.TenantID, "tenant falls back to the URL path")
	assert.Equal(t, "u-42", got.ActorID)
	assert.Equal(t, "req0000001", rec.Header().Get(HeaderRequestID))

	out := buf.String()
	assert.Contains(t, out, "request_id=req0000001")
	assert.Contains(t, out, "tenant_id=acme")
	assert.Contains(t, out, "status=202")
}

func TestLogging_GeneratesRequestIDAndHonoursTenantHeader(t *testing.T) {
	var (
		buf bytes.Buffer
		got *pkglog.RequestContext
	)
	srv := newLoggedServer(&buf, nil, func(ctx context.Context) {
		got = pkglog.GetRequestContext(ctx)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/acme/events", strings.NewReader("{}"))
	req.Header.Set(HeaderTenantID, "override")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Len(t, got.RequestID, 10)
	assert.Equal(t, "override", got.TenantID)
	assert.Equal(t, got.RequestID, rec.Header().Get(HeaderRequestID))
}

func TestLogging_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{"bad_request", kerrors.BadRequest("INVALID_DOMAIN_EVENT", "type is required"), "status=400"},
		{"plain_error", errors.New("boom"), "status=500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			srv := newLoggedServer(&buf, tt.err, func(context.Context) {})

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tenants/acme/events", strings.NewReader("{}")))

			assert.Contains(t, buf.String(), tt.wantStatus)
		})
	}
}

func TestExtractClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9:5555", extractClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", extractClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", extractClientIP(req))
}

func TestTenantFromPath(t *testing.T) {
	assert.Equal(t, "acme", tenantFromPath("/v1/tenants/acme/events"))
	assert.Equal(t, "acme", tenantFromPath("/v1/tenants/acme"))
	assert.Equal(t, "", tenantFromPath("/healthz"))
}
