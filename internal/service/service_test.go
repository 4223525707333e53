package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ZevaroCore/internal/biz"
	"ZevaroCore/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock implementation of biz.EventPublisher for testing.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Send(ctx context.Context, topic, key string, payload interface{}) {
	m.Called(ctx, topic, key, payload)
}

func (m *MockPublisher) DroppedEventCount() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockPublisher) IsOpen() bool {
	args := m.Called()
	return args.Bool(0)
}

type disabledAuditRepo struct{}

func (disabledAuditRepo) Save(context.Context, *model.AuditEntry) error { return nil }
func (disabledAuditRepo) Enabled() bool                                 { return false }

// setupEventServer wires the usecases to a mock publisher behind a kratos HTTP server.
func setupEventServer(t *testing.T) (*khttp.Server, *MockPublisher) {
	t.Helper()
	pub := new(MockPublisher)
	logger := log.NewStdLogger(&bytes.Buffer{})

	audit := biz.NewAuditUsecase(disabledAuditRepo{}, pub, logger)
	svc := NewEventService(
		audit,
		biz.NewNotificationUsecase(pub, logger),
		biz.NewWorkflowUsecase(pub, audit, logger),
		logger,
	)

	srv := khttp.NewServer()
	svc.RegisterRoutes(srv)
	return srv, pub
}

func doJSON(srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}
