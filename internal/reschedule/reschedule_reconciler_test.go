package reschedule_test

import (
	"testing"
	"time"

	"go-leave/internal/leave"
	"go-leave/internal/reschedule"
	rescheduleerrors "go-leave/internal/reschedule/errors"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	t.Run("weekend date widens range but is not counted", func(t *testing.T) {
		out, err := reschedule.Reconcile([]string{"2024-01-06", "2024-01-01", "2024-01-02"})
		require.NoError(t, err)

		assert.Equal(t, 2, out.WorkingDays)
		assert.Equal(t, "2024-01-01", out.DateFrom.Format("2006-01-02"))
		assert.Equal(t, "2024-01-06", out.DateTo.Format("2006-01-02"))
		assert.Equal(t, leave.DateList{"2024-01-01", "2024-01-02", "2024-01-06"}, out.Dates)
	})

	t.Run("single date", func(t *testing.T) {
		out, err := reschedule.Reconcile([]string{"2024-02-14"})
		require.NoError(t, err)
		assert.Equal(t, 1, out.WorkingDays)
		assert.Equal(t, out.DateFrom, out.DateTo)
	})

	tests := []struct {
		name  string
		dates []string
		want  error
	}{
		{"empty", nil, rescheduleerrors.ErrNoProposedDates},
		{"duplicate", []string{"2024-01-02", "2024-01-03", "2024-01-02"}, rescheduleerrors.ErrDuplicateDate},
		{"bad format", []string{"2024/01/02"}, rescheduleerrors.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reschedule.Reconcile(tt.dates)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHistoryFor(t *testing.T) {
	l := leave.LeaveRequest{
		ID:        uuid.New(),
		DateFrom:  time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		TotalDays: 3,
	}
	r := reschedule.RescheduleRequest{ID: uuid.New(), Reason: "project deadline"}
	out, err := reschedule.Reconcile([]string{"2024-01-15", "2024-01-16"})
	require.NoError(t, err)
	at := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	approver := uuid.New()

	h := reschedule.HistoryFor(l, r, out, reschedule.Stamp{ApproverID: approver, Role: workflow.RoleDeptHead, At: at, Remarks: "ok"})

	assert.Equal(t, r.ID.String(), h.RescheduleID)
	assert.Equal(t, leave.DateRange{DateFrom: "2024-01-08", DateTo: "2024-01-10", TotalDays: 3}, h.OriginalDates)
	assert.Equal(t, leave.DateRange{DateFrom: "2024-01-15", DateTo: "2024-01-16", TotalDays: 2}, h.NewDates)
	assert.Equal(t, at, h.RescheduledAt)
	assert.Equal(t, "project deadline", h.Reason)
	assert.Equal(t, approver.String(), h.ApprovedBy)
	assert.Equal(t, "dept_head", h.ApproverRole)
}
