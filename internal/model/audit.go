package model

import "time"

// UnhandledRecord is the append-only audit row for messages that receive
// no automated reply.
type UnhandledRecord struct {
	ID         int64
	MessageID  string
	Sender     string
	Subject    string
	Body       string
	Category   Category
	Importance Importance
	CreatedAt  time.Time
}

// NotFoundRefundAttempt is the append-only audit row for refund requests
// whose order reference matched nothing.
type NotFoundRefundAttempt struct {
	ID           int64
	MessageID    string
	Sender       string
	Subject      string
	Body         string
	AttemptedRef string
	CreatedAt    time.Time
}

// Account is a connected mail account with its stored OAuth tokens.
type Account struct {
	ID           int64
	Email        string
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
}
