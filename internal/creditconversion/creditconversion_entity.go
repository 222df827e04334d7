package creditconversion

import (
	"time"

	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditConversion has no approval rows; each reviewer is stamped on its own
// column pair instead.
type CreditConversion struct {
	ID                 uuid.UUID                `gorm:"type:uuid;primaryKey"`
	EmployeeID         uuid.UUID                `gorm:"type:uuid;index"`
	DepartmentID       *uuid.UUID               `gorm:"type:uuid"`
	LeaveType          string                   `gorm:"type:varchar(10)"`
	CreditsRequested   decimal.Decimal          `gorm:"type:numeric(8,3)"`
	EffectiveCredits   decimal.Decimal          `gorm:"type:numeric(8,3)"`
	MonthlySalary      decimal.Decimal          `gorm:"type:numeric(14,2)"`
	CashAmount         decimal.Decimal          `gorm:"type:numeric(14,2)"`
	Year               int                      `gorm:"not null"`
	Status             workflow.ConversionStage `gorm:"type:varchar(30)"`
	HRApprovedBy       *uuid.UUID               `gorm:"column:hr_approved_by;type:uuid"`
	HRApprovedAt       *time.Time               `gorm:"column:hr_approved_at"`
	DeptHeadApprovedBy *uuid.UUID               `gorm:"column:dept_head_approved_by;type:uuid"`
	DeptHeadApprovedAt *time.Time               `gorm:"column:dept_head_approved_at"`
	AdminApprovedBy    *uuid.UUID               `gorm:"column:admin_approved_by;type:uuid"`
	AdminApprovedAt    *time.Time               `gorm:"column:admin_approved_at"`
	RejectedByRole     *string                  `gorm:"column:rejected_by_role;type:varchar(20)"`
	Remarks            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (CreditConversion) TableName() string { return "credit_conversions" }

func (c CreditConversion) departmentID() string {
	if c.DepartmentID == nil {
		return ""
	}
	return c.DepartmentID.String()
}

// Review is the stamp left by one role on the conversion.
type Review struct {
	Role       workflow.Role
	ApproverID uuid.UUID
	At         time.Time
	Rejected   bool
	Remarks    string
}

func reviewerColumns(role workflow.Role) (by, at string) {
	switch role {
	case workflow.RoleHR:
		return "hr_approved_by", "hr_approved_at"
	case workflow.RoleDeptHead:
		return "dept_head_approved_by", "dept_head_approved_at"
	case workflow.RoleAdmin:
		return "admin_approved_by", "admin_approved_at"
	}
	return "", ""
}
