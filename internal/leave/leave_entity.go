package leave

import (
	"time"

	"go-leave/internal/workflow"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey"`
	EmployeeID          uuid.UUID           `gorm:"type:uuid;index"`
	DepartmentID        *uuid.UUID          `gorm:"type:uuid"`
	LeaveType           string              `gorm:"type:varchar(10)"`
	DateFrom            time.Time           `gorm:"type:date"`
	DateTo              time.Time           `gorm:"type:date"`
	TotalDays           int
	Reason              string
	Status              workflow.LeaveStage `gorm:"type:varchar(30)"`
	SubmitterIsDeptHead bool
	RescheduleDates     DateList            `gorm:"type:jsonb"`
	RescheduleHistory   History             `gorm:"type:jsonb"`
	RescheduledAt       *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

func (l LeaveRequest) departmentID() string {
	if l.DepartmentID == nil {
		return ""
	}
	return l.DepartmentID.String()
}
