package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	CodeSL = "SL"
	CodeVL = "VL"
	// CodeLWOP is leave without pay; it has no account.
	CodeLWOP = "LWOP"
)

const (
	ReferenceLeaveRequest     = "leave_request"
	ReferenceCreditConversion = "credit_conversion"
	ReferenceReschedule       = "reschedule_request"
)

// IsEarnable reports whether the code is backed by the leave_credits row.
func IsEarnable(code string) bool {
	code = NormalizeCode(code)
	return code == CodeSL || code == CodeVL
}

// IsMetered reports whether approving leave of this type moves a balance.
func IsMetered(code string) bool {
	return NormalizeCode(code) != CodeLWOP
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Movement is a single deduct or credit against one account.
type Movement struct {
	EmployeeID    uuid.UUID
	LeaveType     string
	Amount        decimal.Decimal
	Date          time.Time
	Remarks       string
	ReferenceType string
	ReferenceID   uuid.UUID
}

type Result struct {
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Entry         Entry
}

// Ledger mutates one account and appends the matching entry inside the
// caller's transaction.
type Ledger interface {
	Deduct(ctx context.Context, tx *sql.Tx, m Movement) (Result, error)
	Credit(ctx context.Context, tx *sql.Tx, m Movement) (Result, error)
	Balance(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, code string, year int) (decimal.Decimal, error)
}

func validateMovement(m Movement) error {
	if m.EmployeeID == uuid.Nil {
		return ledgererrors.ErrInvalidEmployeeID
	}
	if NormalizeCode(m.LeaveType) == "" {
		return ledgererrors.ErrInvalidLeaveType
	}
	if !m.Amount.IsPositive() {
		return ledgererrors.ErrInvalidAmount
	}
	return nil
}

func newEntry(m Movement, deducted, credited, before, after decimal.Decimal) *Entry {
	e := &Entry{
		ID:             uuid.New(),
		EmployeeID:     m.EmployeeID,
		LeaveType:      NormalizeCode(m.LeaveType),
		Year:           m.Date.Year(),
		EntryDate:      m.Date,
		PointsDeducted: deducted,
		PointsCredited: credited,
		BalanceBefore:  before,
		BalanceAfter:   after,
		Remarks:        m.Remarks,
		ReferenceType:  m.ReferenceType,
	}
	if m.ReferenceID != uuid.Nil {
		ref := m.ReferenceID
		e.ReferenceID = &ref
	}
	return e
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledgererrors.ErrAccountNotFound
	}
	return err
}

type earnableLedger struct {
	repo   Repository
	logger *zap.Logger
}

// NewEarnableLedger handles SL and VL, stored in place on leave_credits.
func NewEarnableLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("ledger.earnable")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.earnable")
	}
	return &earnableLedger{repo: repo, logger: l}
}

func (l *earnableLedger) Deduct(ctx context.Context, tx *sql.Tx, m Movement) (Result, error) {
	return l.apply(ctx, tx, m, true)
}

func (l *earnableLedger) Credit(ctx context.Context, tx *sql.Tx, m Movement) (Result, error) {
	return l.apply(ctx, tx, m, false)
}

func (l *earnableLedger) Balance(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, code string, _ int) (decimal.Decimal, error) {
	c, err := l.repo.WithTx(tx).LockCredit(ctx, employeeID)
	if err != nil {
		return decimal.Zero, notFound(err)
	}
	return c.balanceOf(NormalizeCode(code)), nil
}

func (l *earnableLedger) apply(ctx context.Context, tx *sql.Tx, m Movement, deduct bool) (Result, error) {
	if err := validateMovement(m); err != nil {
		return Result{}, err
	}
	code := NormalizeCode(m.LeaveType)
	if !IsEarnable(code) {
		return Result{}, fmt.Errorf("%w: %s is not an earnable type", ledgererrors.ErrInvalidLeaveType, code)
	}
	rid := contextutil.GetRequestID(ctx)
	qtx := l.repo.WithTx(tx)

	account, err := qtx.LockCredit(ctx, m.EmployeeID)
	if err != nil {
		l.logger.Warn("lock leave credit failed",
			zap.String("request_id", rid),
			zap.String("employee_id", m.EmployeeID.String()),
			zap.Error(err),
		)
		return Result{}, notFound(err)
	}

	before := account.balanceOf(code)
	deducted, credited := decimal.Zero, decimal.Zero
	var after decimal.Decimal
	if deduct {
		after = before.Sub(m.Amount)
		deducted = m.Amount
	} else {
		after = before.Add(m.Amount)
		credited = m.Amount
	}
	if after.IsNegative() {
		l.logger.Warn("deduction exceeds balance",
			zap.String("request_id", rid),
			zap.String("employee_id", m.EmployeeID.String()),
			zap.String("leave_type", code),
			zap.String("balance", before.String()),
			zap.String("amount", m.Amount.String()),
		)
		return Result{}, fmt.Errorf("%w: %s balance %s, requested %s", ledgererrors.ErrInsufficientBalance, code, before, m.Amount)
	}

	if err := qtx.UpdateCredit(ctx, m.EmployeeID, code, after); err != nil {
		l.logger.Error("update leave credit failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, err
	}
	entry := newEntry(m, deducted, credited, before, after)
	if err := qtx.AppendEntry(ctx, entry); err != nil {
		l.logger.Error("append ledger entry failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, err
	}

	l.logger.Info("leave credit mutated",
		zap.String("request_id", rid),
		zap.String("employee_id", m.EmployeeID.String()),
		zap.String("leave_type", code),
		zap.String("balance_before", before.String()),
		zap.String("balance_after", after.String()),
		zap.String("reference_type", m.ReferenceType),
	)
	return Result{BalanceBefore: before, BalanceAfter: after, Entry: *entry}, nil
}

type allotmentLedger struct {
	repo   Repository
	logger *zap.Logger
}

// NewAllotmentLedger handles every non-earnable type, stored per
// employee, leave type and year on leave_balances.
func NewAllotmentLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("ledger.allotment")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.allotment")
	}
	return &allotmentLedger{repo: repo, logger: l}
}

func (l *allotmentLedger) Deduct(ctx context.Context, tx *sql.Tx, m Movement) (Result, error) {
	return l.apply(ctx, tx, m, true)
}

func (l *allotmentLedger) Credit(ctx context.Context, tx *sql.Tx, m Movement) (Result, error) {
	return l.apply(ctx, tx, m, false)
}

func (l *allotmentLedger) Balance(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, code string, year int) (decimal.Decimal, error) {
	b, err := l.repo.WithTx(tx).LockBalance(ctx, employeeID, NormalizeCode(code), year)
	if err != nil {
		return decimal.Zero, notFound(err)
	}
	return b.Balance, nil
}

func (l *allotmentLedger) apply(ctx context.Context, tx *sql.Tx, m Movement, deduct bool) (Result, error) {
	if err := validateMovement(m); err != nil {
		return Result{}, err
	}
	code := NormalizeCode(m.LeaveType)
	rid := contextutil.GetRequestID(ctx)
	qtx := l.repo.WithTx(tx)

	account, err := qtx.LockBalance(ctx, m.EmployeeID, code, m.Date.Year())
	if err != nil {
		l.logger.Warn("lock leave balance failed",
			zap.String("request_id", rid),
			zap.String("employee_id", m.EmployeeID.String()),
			zap.String("leave_type", code),
			zap.Int("year", m.Date.Year()),
			zap.Error(err),
		)
		return Result{}, notFound(err)
	}

	before := account.Balance
	deducted, credited := decimal.Zero, decimal.Zero
	if deduct {
		if before.LessThan(m.Amount) {
			l.logger.Warn("deduction exceeds allotment",
				zap.String("request_id", rid),
				zap.String("employee_id", m.EmployeeID.String()),
				zap.String("leave_type", code),
				zap.String("balance", before.String()),
				zap.String("amount", m.Amount.String()),
			)
			return Result{}, fmt.Errorf("%w: %s balance %s, requested %s", ledgererrors.ErrInsufficientBalance, code, before, m.Amount)
		}
		account.TotalUsed = account.TotalUsed.Add(m.Amount)
		deducted = m.Amount
	} else {
		// credit returns used days first, any remainder is new allotment
		returned := decimal.Min(account.TotalUsed, m.Amount)
		account.TotalUsed = account.TotalUsed.Sub(returned)
		account.TotalEarned = account.TotalEarned.Add(m.Amount.Sub(returned))
		credited = m.Amount
	}
	account.Balance = account.TotalEarned.Sub(account.TotalUsed)
	after := account.Balance

	if err := qtx.UpdateBalance(ctx, account); err != nil {
		l.logger.Error("update leave balance failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, err
	}
	entry := newEntry(m, deducted, credited, before, after)
	if err := qtx.AppendEntry(ctx, entry); err != nil {
		l.logger.Error("append ledger entry failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, err
	}

	l.logger.Info("leave balance mutated",
		zap.String("request_id", rid),
		zap.String("employee_id", m.EmployeeID.String()),
		zap.String("leave_type", code),
		zap.Int("year", m.Date.Year()),
		zap.String("balance_before", before.String()),
		zap.String("balance_after", after.String()),
		zap.String("reference_type", m.ReferenceType),
	)
	return Result{BalanceBefore: before, BalanceAfter: after, Entry: *entry}, nil
}

// Dispatcher routes a movement to the ledger that owns its leave type.
type Dispatcher struct {
	earnable  Ledger
	allotment Ledger
}

func NewDispatcher(earnable, allotment Ledger) *Dispatcher {
	return &Dispatcher{earnable: earnable, allotment: allotment}
}

func (d *Dispatcher) For(code string) Ledger {
	if IsEarnable(code) {
		return d.earnable
	}
	return d.allotment
}

func (d *Dispatcher) Deduct(ctx context.Context, tx *sql.Tx, m Movement) (Result, error) {
	return d.For(m.LeaveType).Deduct(ctx, tx, m)
}

func (d *Dispatcher) Credit(ctx context.Context, tx *sql.Tx, m Movement) (Result, error) {
	return d.For(m.LeaveType).Credit(ctx, tx, m)
}

func (d *Dispatcher) Balance(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, code string, year int) (decimal.Decimal, error) {
	return d.For(code).Balance(ctx, tx, employeeID, code, year)
}
