package ledger

type EntryResponse struct {
	ID             string  `json:"id"`
	LeaveType      string  `json:"leave_type"`
	Year           int     `json:"year"`
	EntryDate      string  `json:"entry_date"`
	PointsDeducted string  `json:"points_deducted"`
	PointsCredited string  `json:"points_credited"`
	BalanceBefore  string  `json:"balance_before"`
	BalanceAfter   string  `json:"balance_after"`
	Remarks        string  `json:"remarks,omitempty"`
	ReferenceType  string  `json:"reference_type,omitempty"`
	ReferenceID    *string `json:"reference_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type EntriesResponse struct {
	EmployeeID string          `json:"employee_id"`
	LeaveType  string          `json:"leave_type,omitempty"`
	Entries    []EntryResponse `json:"entries"`
}
