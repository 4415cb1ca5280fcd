package models

import "time"

// PaymentEvent is the message published to SNS when a payment reaches a
// final state. Downstream consumers (notifications, analytics) key off Type.
type PaymentEvent struct {
	Type        string    `json:"type"` // payment_succeeded | payment_failed
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Amount      int       `json:"amount"`
	Currency    string    `json:"currency"`
	Timestamp   time.Time `json:"timestamp"`
}
