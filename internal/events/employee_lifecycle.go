package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

// EmployeeChangedEvent is published by the HR core whenever an employee's
// department, head flag or salary changes.
type EmployeeChangedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
