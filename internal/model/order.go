package model

import "time"

// Order is a transactional record matched against refund requests. The
// refund_requested flag is monotonic: it only ever goes false -> true.
type Order struct {
	ID              int64
	OrderRef        string
	CustomerEmail   string
	Amount          float64
	Status          string
	RefundRequested bool
	CreatedAt       time.Time
}
