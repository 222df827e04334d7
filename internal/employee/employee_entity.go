package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DepartmentID     *uuid.UUID `gorm:"type:uuid"`
	FullName         string
	Email            string `gorm:"uniqueIndex"`
	IsDepartmentHead bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmployeeSalary struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;index"`
	BaseSalary    decimal.Decimal `gorm:"type:numeric(14,2)"`
	EffectiveDate time.Time       `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile is the subset of an employee the approval flows rely on.
type Profile struct {
	ID               string `json:"id"`
	DepartmentID     string `json:"department_id"`
	FullName         string `json:"full_name"`
	IsDepartmentHead bool   `json:"is_department_head"`
}

func toProfile(e Employee) Profile {
	p := Profile{
		ID:               e.ID.String(),
		FullName:         e.FullName,
		IsDepartmentHead: e.IsDepartmentHead,
	}
	if e.DepartmentID != nil {
		p.DepartmentID = e.DepartmentID.String()
	}
	return p
}
