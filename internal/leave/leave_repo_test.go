package leave_test

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"go-leave/internal/leave"
	"go-leave/internal/workflow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTxLeaveRepository returns a repository bound to an open sqlmock tx.
func newTxLeaveRepository(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	tx, err := sqlDB.Begin()
	require.NoError(t, err)
	return leave.NewRepository(gdb).WithTx(tx), mock
}

type historyArg struct {
	rescheduleID string
}

func (a historyArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	var records []leave.HistoryRecord
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return false
	}
	return len(records) == 1 && records[0].RescheduleID == a.rescheduleID
}

func TestLeaveRepository_AdvanceStage(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE "leave_requests" SET "status"=$1,"updated_at"=$2 WHERE id = $3 AND status = $4`)

	t.Run("moves row still at expected stage", func(t *testing.T) {
		repo, mock := newTxLeaveRepository(t)
		id := uuid.NewString()

		mock.ExpectExec(query).
			WithArgs(string(workflow.LeavePendingAdmin), sqlmock.AnyArg(), id, string(workflow.LeavePendingDeptHead)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AdvanceStage(context.Background(), id, workflow.LeavePendingDeptHead, workflow.LeavePendingAdmin)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row already moved", func(t *testing.T) {
		repo, mock := newTxLeaveRepository(t)
		id := uuid.NewString()

		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AdvanceStage(context.Background(), id, workflow.LeavePending, workflow.LeavePendingDeptHead)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaveRepository_ApplyReschedule(t *testing.T) {
	repo, mock := newTxLeaveRepository(t)
	id := uuid.NewString()
	rescheduleID := uuid.NewString()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "leave_requests" SET .*"reschedule_history"=COALESCE\(reschedule_history, '\[\]'::jsonb\) \|\| \$4::jsonb.* WHERE id = \$9 AND status = \$10`).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(),
			`["2026-03-09","2026-03-10"]`,
			historyArg{rescheduleID: rescheduleID},
			at,
			string(workflow.LeaveRescheduled),
			2,
			at,
			id,
			string(workflow.LeaveApproved),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ApplyReschedule(context.Background(), id, workflow.LeaveApproved, leave.RescheduleChange{
		DateFrom:  time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalDays: 2,
		Dates:     leave.DateList{"2026-03-09", "2026-03-10"},
		Record:    leave.HistoryRecord{RescheduleID: rescheduleID, RescheduledAt: at},
		At:        at,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_FindByIDForUpdate(t *testing.T) {
	repo, mock := newTxLeaveRepository(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "leave_requests" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "leave_type", "status", "total_days"}).
			AddRow(id.String(), "VL", string(workflow.LeavePendingAdmin), 3))

	l, err := repo.FindByIDForUpdate(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, l.ID)
	assert.Equal(t, workflow.LeavePendingAdmin, l.Status)
	assert.Equal(t, 3, l.TotalDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newTxLeaveRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "leave_requests" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_HasOverlappingPeriod(t *testing.T) {
	repo, mock := newTxLeaveRepository(t)
	employeeID := uuid.NewString()
	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "leave_requests" WHERE employee_id = $1 AND status <> $2 AND (NOT (date_to < $3 OR date_from > $4))`)).
		WithArgs(employeeID, string(workflow.LeaveRejected), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	overlap, err := repo.HasOverlappingPeriod(context.Background(), employeeID, from, to, nil)
	require.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}
