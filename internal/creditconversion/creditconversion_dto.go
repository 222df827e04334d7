package creditconversion

type SubmitConversionRequest struct {
	LeaveType        string  `json:"leave_type" binding:"required,max=10"`
	CreditsRequested float64 `json:"credits_requested" binding:"required,gt=0"`
}

type RejectConversionRequest struct {
	Remarks string `json:"remarks" binding:"required,max=500"`
}

type ReviewResponse struct {
	ApproverID string `json:"approver_id"`
	At         string `json:"at"`
}

type ConversionResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	DepartmentID     string          `json:"department_id,omitempty"`
	LeaveType        string          `json:"leave_type"`
	CreditsRequested string          `json:"credits_requested"`
	EffectiveCredits string          `json:"effective_credits"`
	MonthlySalary    string          `json:"monthly_salary"`
	CashAmount       string          `json:"cash_amount"`
	Year             int             `json:"year"`
	Status           string          `json:"status"`
	HRReview         *ReviewResponse `json:"hr_review,omitempty"`
	DeptHeadReview   *ReviewResponse `json:"dept_head_review,omitempty"`
	AdminReview      *ReviewResponse `json:"admin_review,omitempty"`
	RejectedByRole   string          `json:"rejected_by_role,omitempty"`
	Remarks          string          `json:"remarks,omitempty"`
}
