package data

import (
	"context"
	"regexp"
	"testing"
	"time"

	"ZevaroCore/internal/model"
	pkgerrors "ZevaroCore/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var insertAuditSQL = regexp.QuoteMeta("INSERT INTO `event_audit_logs`")

// setupAuditTestDB creates a test database connection with sqlmock
func setupAuditTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func newAuditEntry() *model.AuditEntry {
	return &model.AuditEntry{
		TenantID:   "tenant-a",
		ActorID:    "user-1",
		Action:     model.AuditActionWorkflowTransition,
		Resource:   "workflow",
		ResourceID: "wf-1",
		Details:    map[string]interface{}{"from": "draft", "to": "review"},
		OccurredAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAuditLogRepo_Save(t *testing.T) {
	db, mock := setupAuditTestDB(t)
	repo := NewAuditLogRepo(&Data{db: db}, log.DefaultLogger)
	require.True(t, repo.Enabled())

	mock.ExpectExec(insertAuditSQL).
		WithArgs("tenant-a", "user-1", model.AuditActionWorkflowTransition, "workflow", "wf-1",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	entry := newAuditEntry()
	require.NoError(t, repo.Save(context.Background(), entry))
	assert.Equal(t, int64(7), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepo_RetriesOnceOnDeadlock(t *testing.T) {
	db, mock := setupAuditTestDB(t)
	repo := NewAuditLogRepo(&Data{db: db}, log.DefaultLogger)

	mock.ExpectExec(insertAuditSQL).WillReturnError(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found"})
	mock.ExpectExec(insertAuditSQL).WillReturnResult(sqlmock.NewResult(8, 1))

	entry := newAuditEntry()
	require.NoError(t, repo.Save(context.Background(), entry))
	assert.Equal(t, int64(8), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepo_PermanentError(t *testing.T) {
	db, mock := setupAuditTestDB(t)
	repo := NewAuditLogRepo(&Data{db: db}, log.DefaultLogger)

	mock.ExpectExec(insertAuditSQL).WillReturnError(&mysqldriver.MySQLError{Number: 1406, Message: "Data too long"})

	err := repo.Save(context.Background(), newAuditEntry())
	require.Error(t, err)

	dbErr := pkgerrors.ClassifyDBError(err)
	assert.Equal(t, pkgerrors.ErrorTypeDataTooLong, dbErr.Type)
	assert.NoError(t, mock.ExpectationsWereMet(), "permanent errors are not retried")
}

func TestAuditLogRepo_Disabled(t *testing.T) {
	repo := NewAuditLogRepo(&Data{}, log.DefaultLogger)

	assert.False(t, repo.Enabled())
	assert.ErrorIs(t, repo.Save(context.Background(), newAuditEntry()), ErrAuditStoreDisabled)
}

func TestAuditLog_TableName(t *testing.T) {
	assert.Equal(t, "event_audit_logs", AuditLog{}.TableName())
}
