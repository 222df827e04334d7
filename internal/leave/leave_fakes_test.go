package leave_test

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/leave"
	"go-leave/internal/ledger"
	"go-leave/internal/notification"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	rows         map[string]*leave.LeaveRequest
	overlapFn    func(ctx context.Context, employeeID string, dateFrom, dateTo time.Time, excludeID *string) (bool, error)
	createdCount int
}

func newFakeLeaveRepository() *fakeLeaveRepository {
	return &fakeLeaveRepository{rows: map[string]*leave.LeaveRequest{}}
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	cp := *l
	f.rows[l.ID.String()] = &cp
	f.createdCount++
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
	if f.overlapFn != nil {
		return f.overlapFn(ctx, employeeID, dateFrom, dateTo, excludeID)
	}
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
			f.rows[i].Remarks += " " + note
			n++
		}
	}
	return n, nil
}

type fakeLedger struct {
	deducted []ledger.Movement
	credited []ledger.Movement
	deductFn func(m ledger.Movement) (ledger.Result, error)
}

func (f *fakeLedger) Deduct(ctx context.Context, tx *sql.Tx, m ledger.Movement) (ledger.Result, error) {
	if f.deductFn != nil {
		return f.deductFn(m)
	}
	f.deducted = append(f.deducted, m)
	return ledger.Result{}, nil
}

func (f *fakeLedger) Credit(ctx context.Context, tx *sql.Tx, m ledger.Movement) (ledger.Result, error) {
	f.credited = append(f.credited, m)
	return ledger.Result{}, nil
}

func (f *fakeLedger) Balance(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, code string, year int) (decimal.Decimal, error) {
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

type fakeNotifier struct {
	transitions []notification.Transition
}

func (f *fakeNotifier) Notify(ctx context.Context, tx *sql.Tx, t notification.Transition) error {
	f.transitions = append(f.transitions, t)
	return nil
}
