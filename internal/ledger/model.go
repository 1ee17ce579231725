package ledger

import "time"

// Status de conta
const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusBlocked   = "BLOCKED"
)

const RoleAdmin = "ROLE_ADMIN"

// Account é a identidade de aposta do usuário e dona do saldo.
// Saldo nunca fica negativo; toda mutação passa por CreditTx/DebitTx.
type Account struct {
	ID           string
	Username     string
	BalanceCents int64
	Status       string
	Roles        []string
	CreatedAt    time.Time
	LastActive   time.Time
}

func (a *Account) IsActive() bool { return a.Status == StatusActive }

func (a *Account) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// Tipos de lançamento no journal
const (
	KindGame       = "GAME"
	KindDeposit    = "DEPOSIT"
	KindWithdrawal = "WITHDRAWAL"
)

// Status de lançamento
const (
	EntryPending   = "PENDING"
	EntryCompleted = "COMPLETED"
	EntryFailed    = "FAILED"
)

// Entry é um lançamento imutável do journal (append-only).
// Lançamentos PENDING transicionam uma única vez para COMPLETED ou FAILED.
type Entry struct {
	ID          string
	AccountID   string
	AmountCents int64  // positivo = crédito, negativo = débito
	Kind        string // GAME | DEPOSIT | WITHDRAWAL
	Status      string // PENDING | COMPLETED | FAILED
	Detail      string
	RequestID   string // id do pedido de saque que originou o lançamento, quando houver
	CreatedAt   time.Time
}
