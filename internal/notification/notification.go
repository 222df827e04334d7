package notification

import (
	"fmt"
	"strings"

	"go-leave/internal/workflow"
)

const RecipientSubmitter = "employee"

// Payload is the body handed to the notification collaborator.
type Payload struct {
	RequestID       string `json:"request_id"`
	Status          string `json:"status"`
	LeaveType       string `json:"leave_type"`
	DateFrom        string `json:"date_from,omitempty"`
	DateTo          string `json:"date_to,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
	NotificationFor string `json:"notification_for"`
	RedirectURL     string `json:"redirect_url"`
}

// Transition describes one committed stage change.
type Transition struct {
	AggregateType string
	RequestID     string
	SubmitterID   string
	Status        string
	LeaveType     string
	DateFrom      string
	DateTo        string
	Remarks       string
	// NextActor is empty once the request is terminal.
	NextActor workflow.Role
}

// Message is one payload addressed to one recipient.
type Message struct {
	AggregateType string
	AggregateID   string
	Status        string
	Recipient     string
	RecipientID   string
	Payload       Payload
}

type Router struct {
	baseURL string
}

func NewRouter(baseURL string) *Router {
	return &Router{baseURL: strings.TrimRight(baseURL, "/")}
}

// Route returns one message for the next actor, if any, and one for the
// submitter.
func (r *Router) Route(t Transition) []Message {
	messages := make([]Message, 0, 2)
	if t.NextActor != "" {
		messages = append(messages, r.build(t, string(t.NextActor), "", r.reviewURL(t)))
	}
	messages = append(messages, r.build(t, RecipientSubmitter, t.SubmitterID, r.detailURL(t)))
	return messages
}

func (r *Router) build(t Transition, recipient, recipientID, url string) Message {
	return Message{
		AggregateType: t.AggregateType,
		AggregateID:   t.RequestID,
		Status:        t.Status,
		Recipient:     recipient,
		RecipientID:   recipientID,
		Payload: Payload{
			RequestID:       t.RequestID,
			Status:          t.Status,
			LeaveType:       t.LeaveType,
			DateFrom:        t.DateFrom,
			DateTo:          t.DateTo,
			Remarks:         t.Remarks,
			NotificationFor: recipient,
			RedirectURL:     url,
		},
	}
}

func (r *Router) detailURL(t Transition) string {
	return fmt.Sprintf("%s/%s/%s", r.baseURL, pathFor(t.AggregateType), t.RequestID)
}

func (r *Router) reviewURL(t Transition) string {
	return fmt.Sprintf("%s/%s/%s/review", r.baseURL, pathFor(t.AggregateType), t.RequestID)
}

func pathFor(aggregateType string) string {
	return strings.ReplaceAll(aggregateType, "_", "-") + "s"
}
