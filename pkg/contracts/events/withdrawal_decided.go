package events

import "time"

// Evento emitido pelo admin-service após decidir um pedido de saque.
type WithdrawalDecided struct {
	RequestID   string    `json:"request_id"`
	AccountID   string    `json:"account_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"` // "APPROVED" | "REJECTED"
	Ts          time.Time `json:"ts"`
}
