package reschedule

import (
	"time"

	"go-leave/internal/leave"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
)

type RescheduleRequest struct {
	ID             uuid.UUID                `gorm:"type:uuid;primaryKey"`
	LeaveRequestID uuid.UUID                `gorm:"type:uuid;index"`
	EmployeeID     uuid.UUID                `gorm:"type:uuid"`
	DepartmentID   *uuid.UUID               `gorm:"type:uuid"`
	ProposedDates  leave.DateList           `gorm:"type:jsonb"`
	Reason         string
	Status         workflow.RescheduleStage `gorm:"type:varchar(30)"`
	ApprovedBy     *uuid.UUID               `gorm:"type:uuid"`
	ApproverRole   *string                  `gorm:"type:varchar(20)"`
	ApprovedAt     *time.Time
	Remarks        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (RescheduleRequest) TableName() string { return "reschedule_requests" }

func (r RescheduleRequest) departmentID() string {
	if r.DepartmentID == nil {
		return ""
	}
	return r.DepartmentID.String()
}

// Stamp is written on the reschedule row together with the stage change.
type Stamp struct {
	ApproverID uuid.UUID
	Role       workflow.Role
	At         time.Time
	Remarks    string
}
