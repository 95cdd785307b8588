// Package mq defines the event payloads published by the triage pipeline.
package mq

import "time"

// Routing keys on the triage.events exchange.
const (
	RoutingKeyRefundApproved = "triage.refund.approved"
	RoutingKeyRefundNotFound = "triage.refund.not_found"
	RoutingKeyUnhandled      = "triage.unhandled"
	RoutingKeyControl        = "triage.control"
)

// ControlPayload announces an operator toggling the poll loop.
type ControlPayload struct {
	Running   bool      `json:"running"`
	Operator  string    `json:"operator"`
	Timestamp time.Time `json:"timestamp"`
}

// RefundApprovedPayload is published when a refund request matched an
// order and the refund_requested flag was flipped.
type RefundApprovedPayload struct {
	MessageID string    `json:"message_id"`
	OrderRef  string    `json:"order_ref"`
	Sender    string    `json:"sender"`
	Account   string    `json:"account"`
	TraceID   string    `json:"trace_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RefundNotFoundPayload is published when a refund request carried a
// reference that matched no order.
type RefundNotFoundPayload struct {
	MessageID     string    `json:"message_id"`
	AttemptedRef  string    `json:"attempted_ref"`
	Sender        string    `json:"sender"`
	PriorAttempts int       `json:"prior_attempts"`
	TraceID       string    `json:"trace_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// UnhandledPayload is published when a message receives no automated
// reply and lands in the audit trail.
type UnhandledPayload struct {
	MessageID  string    `json:"message_id"`
	Sender     string    `json:"sender"`
	Subject    string    `json:"subject"`
	Category   string    `json:"category"`
	Importance string    `json:"importance"`
	TraceID    string    `json:"trace_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
