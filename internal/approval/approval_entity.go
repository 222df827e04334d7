package approval

import (
	"time"

	"go-leave/internal/workflow"

	"github.com/google/uuid"
)

const (
	RequestTypeLeave      = "leave_request"
	RequestTypeReschedule = "reschedule_request"
)

// Approval is one role's decision on one request. At most one row exists per
// (request_type, request_id, role), enforced by uq_approvals_request_role.
type Approval struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	RequestType string            `gorm:"type:varchar(30);not null;uniqueIndex:uq_approvals_request_role"`
	RequestID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_approvals_request_role"`
	Role        workflow.Role     `gorm:"type:varchar(20);not null;uniqueIndex:uq_approvals_request_role"`
	Status      workflow.Decision `gorm:"type:varchar(20);not null"`
	ApproverID  uuid.UUID         `gorm:"type:uuid;not null"`
	Remarks     string            `gorm:"type:text"`
	ApprovedAt  time.Time         `gorm:"not null"`
}

func (Approval) TableName() string { return "approvals" }
