package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ZevaroCore/internal/model"
	pkgerrors "ZevaroCore/pkg/errors"

	"github.com/bytedance/sonic"
	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// ErrAuditStoreDisabled is returned by AuditLogRepo.Save when no database is configured.
var ErrAuditStoreDisabled = errors.New("audit store disabled: MYSQL_DSN not configured")

// AuditLog is the GORM model for event_audit_logs table
type AuditLog struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	TenantID   string    `gorm:"column:tenant_id;type:varchar(64);not null;index:idx_tenant_occurred"`
	ActorID    string    `gorm:"column:actor_id;type:varchar(64);not null"`
	Action     string    `gorm:"column:action;type:varchar(50);not null"`
	Resource   string    `gorm:"column:resource;type:varchar(64);not null"`
	ResourceID string    `gorm:"column:resource_id;type:varchar(128)"`
	Details    string    `gorm:"column:details;type:json"` // JSON string
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index:idx_tenant_occurred"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "event_audit_logs"
}

// AuditLogRepo persists audit entries to MySQL.
type AuditLogRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewAuditLogRepo creates an audit repository. Without a database every Save
// returns ErrAuditStoreDisabled.
func NewAuditLogRepo(d *Data, logger log.Logger) *AuditLogRepo {
	return &AuditLogRepo{
		db:     d.GetDB(),
		logger: log.NewHelper(log.With(logger, "module", "data/audit")),
	}
}

// Enabled reports whether entries are persisted.
func (r *AuditLogRepo) Enabled() bool {
	return r.db != nil
}

// Save inserts entry and sets entry.ID. A deadlock or dropped connection is
// retried once.
func (r *AuditLogRepo) Save(ctx context.Context, entry *model.AuditEntry) error {
	if r.db == nil {
		return ErrAuditStoreDisabled
	}

	details := "{}"
	if len(entry.Details) > 0 {
		b, err := sonic.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
		details = string(b)
	}

	row := &AuditLog{
		TenantID:   entry.TenantID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Details:    details,
		OccurredAt: entry.OccurredAt,
	}

	err := r.db.WithContext(ctx).Create(row).Error
	if err != nil && pkgerrors.IsRetryable(err) {
		r.logger.Warnw("msg", "retrying audit log insert",
			"tenant_id", entry.TenantID,
			"action", entry.Action,
			"error_type", pkgerrors.ClassifyDBError(err).Type.String(),
			"error", err)
		row.ID = 0
		err = r.db.WithContext(ctx).Create(row).Error
	}
	if err != nil {
		return fmt.Errorf("failed to save audit log: %w", pkgerrors.ClassifyDBError(err))
	}

	entry.ID = row.ID
	r.logger.Debugw("msg", "audit log written",
		"id", row.ID,
		"tenant_id", entry.TenantID,
		"action", entry.Action)
	return nil
}
