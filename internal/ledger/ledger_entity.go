package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveCredit carries the earnable SL/VL balances, one row per employee.
type LeaveCredit struct {
	EmployeeID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SLBalance  decimal.Decimal `gorm:"column:sl_balance;type:numeric(8,3);not null"`
	VLBalance  decimal.Decimal `gorm:"column:vl_balance;type:numeric(8,3);not null"`
	UpdatedAt  time.Time
}

func (LeaveCredit) TableName() string { return "leave_credits" }

func (c LeaveCredit) balanceOf(code string) decimal.Decimal {
	if code == CodeSL {
		return c.SLBalance
	}
	return c.VLBalance
}

// LeaveBalance is the allotment account for every other leave type.
// Balance = TotalEarned - TotalUsed, enforced by chk_leave_balances_identity.
type LeaveBalance struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	LeaveType   string          `gorm:"type:varchar(10);not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	Year        int             `gorm:"not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	TotalEarned decimal.Decimal `gorm:"type:numeric(8,3);not null"`
	TotalUsed   decimal.Decimal `gorm:"type:numeric(8,3);not null"`
	Balance     decimal.Decimal `gorm:"type:numeric(8,3);not null"`
	UpdatedAt   time.Time
}

func (LeaveBalance) TableName() string { return "leave_balances" }

// Entry is an append-only record of one balance mutation.
type Entry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_entries_account"`
	LeaveType      string          `gorm:"type:varchar(10);not null;index:idx_ledger_entries_account"`
	Year           int             `gorm:""`
	EntryDate      time.Time       `gorm:"type:date;not null"`
	PointsDeducted decimal.Decimal `gorm:"type:numeric(8,3);not null"`
	PointsCredited decimal.Decimal `gorm:"type:numeric(8,3);not null"`
	BalanceBefore  decimal.Decimal `gorm:"type:numeric(8,3);not null"`
	BalanceAfter   decimal.Decimal `gorm:"type:numeric(8,3);not null"`
	Remarks        string          `gorm:"type:text"`
	ReferenceType  string          `gorm:"type:varchar(30)"`
	ReferenceID    *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"index:idx_ledger_entries_account"`
}

func (Entry) TableName() string { return "ledger_entries" }
