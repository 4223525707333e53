package data

import (
	"errors"
	"sync"
	"testing"
	"time"

	"ZevaroCore/internal/model"
	"ZevaroCore/pkg/breaker"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCircuitRecorder struct {
	mu        sync.Mutex
	opened    []breaker.FailureReport
	recovered []breaker.Recovery
}

func (r *recordingCircuitRecorder) CircuitOpened(report breaker.FailureReport, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, report)
}

func (r *recordingCircuitRecorder) CircuitRecovered(recovery breaker.Recovery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recovered = append(r.recovered, recovery)
}

func TestCircuitAuditRecorder_PersistsTransitions(t *testing.T) {
	db, mock := setupAuditTestDB(t)
	repo := NewAuditLogRepo(&Data{db: db}, log.DefaultLogger)
	r, cleanup, err := NewCircuitAuditRecorder(repo, log.DefaultLogger)
	require.NoError(t, err)

	openedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(insertAuditSQL).
		WithArgs(model.SystemTenant, model.SystemActor, model.AuditActionCircuitOpened, "event_gateway",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	r.CircuitOpened(breaker.FailureReport{ConsecutiveFailures: 5, Opened: true, OpenedAt: openedAt}, 5*time.Minute, errors.New("broker down"))
	r.Wait()

	mock.ExpectExec(insertAuditSQL).
		WithArgs(model.SystemTenant, model.SystemActor, model.AuditActionCircuitRecovered, "event_gateway",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	r.CircuitRecovered(breaker.Recovery{OpenedAt: openedAt, Downtime: 6 * time.Minute, DroppedWhileOpen: 12})
	cleanup()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCircuitAuditRecorder_InsertFailureIsLogged(t *testing.T) {
	db, mock := setupAuditTestDB(t)
	repo := NewAuditLogRepo(&Data{db: db}, log.DefaultLogger)
	logs := &recordingLogger{}
	r, cleanup, err := NewCircuitAuditRecorder(repo, logs)
	require.NoError(t, err)

	mock.ExpectExec(insertAuditSQL).WillReturnError(errors.New("table is read only"))
	r.CircuitOpened(breaker.FailureReport{Opened: true, OpenedAt: time.Now()}, time.Minute, nil)
	cleanup()

	assert.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, logs.entries, 1)
	assert.Equal(t, "WARN", logs.entries[0]["level"])
	assert.Equal(t, model.AuditActionCircuitOpened, logs.entries[0]["action"])
}

func TestCircuitAuditRecorder_DisabledStore(t *testing.T) {
	r, cleanup, err := NewCircuitAuditRecorder(NewAuditLogRepo(&Data{}, log.DefaultLogger), log.DefaultLogger)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		r.CircuitOpened(breaker.FailureReport{Opened: true}, time.Minute, nil)
		r.CircuitRecovered(breaker.Recovery{})
		cleanup()
	})
}

func TestResilientEventGateway_ReportsTransitionsToRecorder(t *testing.T) {
	f := newGatewayFixture()
	rec := &recordingCircuitRecorder{}
	f.gw = NewResilientEventGateway(f.producer, breaker.Settings{}, 0, f.logs,
		WithGatewayClock(f.clock.Now), WithCircuitRecorder(rec))

	f.producer.setErr(errBrokerDown)
	f.send(breaker.DefaultFailureThreshold + 3)
	require.Len(t, rec.opened, 1)
	assert.Equal(t, int64(breaker.DefaultFailureThreshold), rec.opened[0].ConsecutiveFailures)
	assert.Empty(t, rec.recovered)

	f.producer.setErr(nil)
	f.at(breaker.DefaultResetTimeout + time.Second)
	f.send(1)

	require.Len(t, rec.recovered, 1)
	assert.Equal(t, int64(3), rec.recovered[0].DroppedWhileOpen)
}
