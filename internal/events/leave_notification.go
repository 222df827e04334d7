package events

import "time"

const LeaveNotificationTopic = "hr.leave.notifications.v1"

const (
	AggregateLeaveRequest      = "leave_request"
	AggregateCreditConversion  = "credit_conversion"
	AggregateRescheduleRequest = "reschedule_request"
)

// LeaveNotificationEvent is the message published for every recipient of a
// stage transition. Payload is the recipient-specific notification body.
type LeaveNotificationEvent struct {
	EventType     string    `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	Recipient     string    `json:"recipient"`
	RecipientID   string    `json:"recipient_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       any       `json:"payload"`
}

// EventType builds "<aggregate>.<status>", e.g. "leave_request.pending_admin".
func EventType(aggregateType, status string) string {
	return aggregateType + "." + status
}
