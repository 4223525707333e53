package biz

import (
	"context"

	"ZevaroCore/internal/model"
	pkglog "ZevaroCore/pkg/log"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// NotificationUsecase publishes domain events for other services to consume.
type NotificationUsecase struct {
	publisher EventPublisher
	log       *pkglog.LogHelper
}

// NewNotificationUsecase creates the notification usecase.
func NewNotificationUsecase(publisher EventPublisher, logger log.Logger) *NotificationUsecase {
	return &NotificationUsecase{
		publisher: publisher,
		log:       pkglog.NewLogHelper(log.With(logger, "module", "biz/notification")),
	}
}

// Notify publishes a domain event and returns its envelope id.
func (uc *NotificationUsecase) Notify(ctx context.Context, tenantID, eventType string, data interface{}) (string, error) {
	if tenantID == "" || eventType == "" {
		return "", kerrors.BadRequest("INVALID_DOMAIN_EVENT", "tenant_id and type are required")
	}

	env := NewEnvelope(ctx, eventType, tenantID, data)
	uc.publisher.Send(ctx, model.TopicDomainEvents, tenantID, env)

	uc.log.Notification("domain event published",
		"event_id", env.ID,
		"tenant_id", tenantID,
		"event_type", eventType)
	return env.ID, nil
}
