package biz

import (
	"context"
	"errors"
	"time"

	"ZevaroCore/internal/model"
	pkglog "ZevaroCore/pkg/log"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// AuditRepo persists audit entries.
type AuditRepo interface {
	Save(ctx context.Context, entry *model.AuditEntry) error
	Enabled() bool
}

// AuditUsecase records audit entries: persisted when a store is configured,
// always published to the audit topic.
type AuditUsecase struct {
	repo      AuditRepo
	publisher EventPublisher
	log       *pkglog.LogHelper
}

// NewAuditUsecase creates the audit usecase.
func NewAuditUsecase(repo AuditRepo, publisher EventPublisher, logger log.Logger) *AuditUsecase {
	return &AuditUsecase{
		repo:      repo,
		publisher: publisher,
		log:       pkglog.NewLogHelper(log.With(logger, "module", "biz/audit")),
	}
}

// Record persists and publishes entry. Only validation errors are returned:
// a failed insert is logged and the entry is still published, and publishing
// never fails.
func (uc *AuditUsecase) Record(ctx context.Context, entry *model.AuditEntry) error {
	if entry == nil || entry.TenantID == "" || entry.Action == "" {
		return kerrors.BadRequest("INVALID_AUDIT_ENTRY", "tenant_id and action are required")
	}
	if entry.ActorID == "" {
		entry.ActorID = model.SystemActor
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	if uc.repo.Enabled() {
		if err := uc.repo.Save(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
			uc.log.Warnw("msg", "failed to persist audit entry, publishing only",
				"tenant_id", entry.TenantID,
				"action", entry.Action,
				"error", err,
				"type", "audit")
		}
	}

	uc.publisher.Send(ctx, model.TopicAudit, entry.TenantID, NewEnvelope(ctx, entry.Action, entry.TenantID, entry))
	uc.log.Audit("audit entry recorded",
		"tenant_id", entry.TenantID,
		"actor_id", entry.ActorID,
		"action", entry.Action,
		"resource", entry.Resource,
		"resource_id", entry.ResourceID)
	return nil
}
