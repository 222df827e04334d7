package leave

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,max=10"`
	DateFrom  string `json:"date_from" binding:"required"`
	DateTo    string `json:"date_to" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type ApproveLeaveRequest struct {
	Remarks string `json:"remarks" binding:"max=500"`
}

type RejectLeaveRequest struct {
	Remarks string `json:"remarks" binding:"required,max=500"`
}

type ApprovalResponse struct {
	Role       string `json:"role"`
	Status     string `json:"status"`
	ApproverID string `json:"approver_id"`
	Remarks    string `json:"remarks,omitempty"`
	ApprovedAt string `json:"approved_at"`
}

type LeaveResponse struct {
	ID                  string             `json:"id"`
	EmployeeID          string             `json:"employee_id"`
	DepartmentID        string             `json:"department_id,omitempty"`
	LeaveType           string             `json:"leave_type"`
	DateFrom            string             `json:"date_from"`
	DateTo              string             `json:"date_to"`
	TotalDays           int                `json:"total_days"`
	Reason              string             `json:"reason"`
	Status              string             `json:"status"`
	SubmitterIsDeptHead bool               `json:"submitter_is_dept_head"`
	RescheduleDates     []string           `json:"reschedule_dates,omitempty"`
	RescheduleHistory   []HistoryRecord    `json:"reschedule_history,omitempty"`
	RescheduledAt       *string            `json:"rescheduled_at,omitempty"`
	Approvals           []ApprovalResponse `json:"approvals,omitempty"`
}
