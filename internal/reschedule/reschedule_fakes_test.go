package reschedule_test

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/leave"
	"go-leave/internal/ledger"
	"go-leave/internal/notification"
	"go-leave/internal/reschedule"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRescheduleRepository struct {
	rows map[string]*reschedule.RescheduleRequest
}

func (f *fakeRescheduleRepository) WithTx(tx *sql.Tx) reschedule.Repository { return f }

func (f *fakeRescheduleRepository) Create(ctx context.Context, r *reschedule.RescheduleRequest) error {
	cp := *r
	f.rows[r.ID.String()] = &cp
	return nil
}

func (f *fakeRescheduleRepository) FindByID(ctx context.Context, id string) (*reschedule.RescheduleRequest, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRescheduleRepository) FindByIDForUpdate(ctx context.Context, id string) (*reschedule.RescheduleRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRescheduleRepository) HasPending(ctx context.Context, leaveRequestID uuid.UUID) (bool, error) {
	for _, r := range f.rows {
		if r.LeaveRequestID == leaveRequestID && r.Status == workflow.ReschedulePendingDeptHead {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRescheduleRepository) AdvanceStage(ctx context.Context, id string, from, to workflow.RescheduleStage, st reschedule.Stamp) (bool, error) {
	r, ok := f.rows[id]
	if !ok || r.Status != from {
		return false, nil
	}
	by, at, role := st.ApproverID, st.At, string(st.Role)
	r.ApprovedBy, r.ApprovedAt, r.ApproverRole = &by, &at, &role
	r.Remarks = st.Remarks
	r.Status = to
	return true, nil
}

type fakeLeaveRepository struct {
	rows map[string]*leave.LeaveRequest
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	cp := *l
	f.rows[l.ID.String()] = &cp
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	l, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeLeaveRepository) AdvanceStage(ctx context.Context, id string, from, to workflow.LeaveStage) (bool, error) {
	l, ok := f.rows[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = to
	return true, nil
}

func (f *fakeLeaveRepository) ApplyReschedule(ctx context.Context, id string, expected workflow.LeaveStage, change leave.RescheduleChange) (bool, error) {
	l, ok := f.rows[id]
	if !ok || l.Status != expected {
		return false, nil
	}
	l.DateFrom, l.DateTo, l.TotalDays = change.DateFrom, change.DateTo, change.TotalDays
	l.RescheduleDates = change.Dates
	l.RescheduleHistory = append(l.RescheduleHistory, change.Record)
	l.Status = workflow.LeaveRescheduled
	at := change.At
	l.RescheduledAt = &at
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, dateFrom, dateTo time.Time, excludeID *string) (bool, error) {
	return false, nil
}

type fakeApprovalRepository struct {
	rows []approval.Approval
}

func (f *fakeApprovalRepository) WithTx(tx *sql.Tx) approval.Repository { return f }

func (f *fakeApprovalRepository) Create(ctx context.Context, a *approval.Approval) error {
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeApprovalRepository) ExistsForRole(ctx context.Context, requestType string, requestID uuid.UUID, role workflow.Role) (bool, error) {
	for _, r := range f.rows {
		if r.RequestType == requestType && r.RequestID == requestID && r.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApprovalRepository) FindByRequest(ctx context.Context, requestType string, requestID uuid.UUID) ([]approval.Approval, error) {
	var out []approval.Approval
	for _, r := range f.rows {
		if r.RequestType == requestType && r.RequestID == requestID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeApprovalRepository) AppendRemarks(ctx context.Context, requestType string, requestID uuid.UUID, note string) (int64, error) {
	var n int64
	for i := range f.rows {
		if f.rows[i].RequestType == requestType && f.rows[i].RequestID == requestID {
			f.rows[i].Remarks = strings.TrimSpace(f.rows[i].Remarks + " " + note)
			n++
		}
	}
	return n, nil
}

type recordingLedger struct {
	deducted []ledger.Movement
	credited []ledger.Movement
	err      error
}

func (l *recordingLedger) Deduct(ctx context.Context, tx *sql.Tx, m ledger.Movement) (ledger.Result, error) {
	if l.err != nil {
		return ledger.Result{}, l.err
	}
	l.deducted = append(l.deducted, m)
	return ledger.Result{}, nil
}

func (l *recordingLedger) Credit(ctx context.Context, tx *sql.Tx, m ledger.Movement) (ledger.Result, error) {
	if l.err != nil {
		return ledger.Result{}, l.err
	}
	l.credited = append(l.credited, m)
	return ledger.Result{}, nil
}

func (l *recordingLedger) Balance(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, code string, year int) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeDirectory struct {
	profiles map[string]employee.Profile
}

func (f *fakeDirectory) Profile(ctx context.Context, id string) (employee.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return employee.Profile{}, employeeerrors.ErrEmployeeNotFound
	}
	return p, nil
}

func (f *fakeDirectory) MonthlySalary(ctx context.Context, tx *sql.Tx, id string, asOf time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeDirectory) Invalidate(ctx context.Context, id string) error { return nil }

type recordingNotifier struct {
	transitions []notification.Transition
}

func (n *recordingNotifier) Notify(ctx context.Context, tx *sql.Tx, t notification.Transition) error {
	n.transitions = append(n.transitions, t)
	return nil
}
