package reschedule

import "go-leave/internal/leave"

type SubmitRescheduleRequest struct {
	LeaveRequestID string   `json:"leave_request_id" binding:"required"`
	ProposedDates  []string `json:"proposed_dates" binding:"required,min=1"`
	Reason         string   `json:"reason" binding:"max=1000"`
}

type ApproveRescheduleRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type RejectRescheduleRequest struct {
	Remarks string `json:"remarks" binding:"required,max=1000"`
}

type RescheduleResponse struct {
	ID             string   `json:"id"`
	LeaveRequestID string   `json:"leave_request_id"`
	EmployeeID     string   `json:"employee_id"`
	DepartmentID   string   `json:"department_id,omitempty"`
	ProposedDates  []string `json:"proposed_dates"`
	Reason         string   `json:"reason,omitempty"`
	Status         string   `json:"status"`
	ApprovedBy     string   `json:"approved_by,omitempty"`
	ApproverRole   string   `json:"approver_role,omitempty"`
	ApprovedAt     string   `json:"approved_at,omitempty"`
	Remarks        string   `json:"remarks,omitempty"`
	// Leave is the original request after reconciliation, set on approval.
	Leave *leave.LeaveResponse `json:"leave,omitempty"`
}
