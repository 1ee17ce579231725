package withdrawal

import (
	"database/sql"
	"time"
)

// Status do pedido de saque. PENDING é o estado inicial; APPROVED e
// REJECTED são terminais.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Métodos de pagamento aceitos
const MethodUPI = "UPI"

// Request é um pedido de saque. Nasce com os fundos já retidos (débito no
// saldo) e um lançamento PENDING/WITHDRAWAL no journal referenciando seu id.
type Request struct {
	ID          string
	AccountID   string
	AmountCents int64
	Method      string
	Details     string
	Status      string
	CreatedAt   time.Time
	DecidedAt   time.Time // zero enquanto PENDING
}

func scanRequest(rows interface{ Scan(...any) error }) (Request, error) {
	var r Request
	var decidedAt sql.NullTime
	err := rows.Scan(&r.ID, &r.AccountID, &r.AmountCents, &r.Method,
		&r.Details, &r.Status, &r.CreatedAt, &decidedAt)
	if decidedAt.Valid {
		r.DecidedAt = decidedAt.Time
	}
	return r, err
}
