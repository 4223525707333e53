package biz

import (
	"context"
	"time"

	"ZevaroCore/internal/model"
	pkglog "ZevaroCore/pkg/log"

	"github.com/google/uuid"
)

// NewEnvelope wraps data for publishing. The request id is taken from ctx
// when the request went through the logging middleware.
func NewEnvelope(ctx context.Context, eventType, tenantID string, data interface{}) *model.Envelope {
	env := &model.Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		TenantID:   tenantID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if reqID := pkglog.GetRequestID(ctx); reqID != "unknown" {
		env.RequestID = reqID
	}
	return env
}
