package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Ledger implementa a mutação de saldo de contas em Postgres.
// Usa lock pessimista (FOR UPDATE) na linha da conta: operações sobre a
// mesma conta são serializadas, contas distintas não se bloqueiam.
type Ledger struct {
	db                   *sql.DB
	journal              *Journal
	startingBalanceCents int64
}

func NewLedger(db *sql.DB, journal *Journal, startingBalanceCents int64) *Ledger {
	return &Ledger{db: db, journal: journal, startingBalanceCents: startingBalanceCents}
}

// GetOrCreateAccount retorna a conta de um usuário, criando-a se não existir.
// Contas novas nascem ACTIVE com o saldo inicial configurado; se o saldo
// inicial for positivo, um lançamento DEPOSIT/COMPLETED cobre a diferença.
func (l *Ledger) GetOrCreateAccount(ctx context.Context, username string) (*Account, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	acct, err := scanAccount(tx.QueryRowContext(ctx,
		`SELECT id, username, balance_cents, status, roles, created_at, last_active
		 FROM accounts WHERE username=$1`, username))
	if err == sql.ErrNoRows {
		acct = &Account{
			ID:           uuid.NewString(),
			Username:     username,
			BalanceCents: l.startingBalanceCents,
			Status:       StatusActive,
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO accounts(id, username, balance_cents, status, roles) VALUES($1,$2,$3,$4,$5)`,
			acct.ID, acct.Username, acct.BalanceCents, acct.Status, pq.Array([]string{})); err != nil {
			return nil, err
		}
		if l.startingBalanceCents > 0 {
			if _, err = l.journal.RecordTx(ctx, tx, Entry{
				AccountID:   acct.ID,
				AmountCents: l.startingBalanceCents,
				Kind:        KindDeposit,
				Status:      EntryCompleted,
				Detail:      "Signup balance",
			}); err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return acct, nil
}

// GetAccount busca uma conta pelo id.
func (l *Ledger) GetAccount(ctx context.Context, id string) (*Account, error) {
	acct, err := scanAccount(l.db.QueryRowContext(ctx,
		`SELECT id, username, balance_cents, status, roles, created_at, last_active
		 FROM accounts WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// LockAccountTx carrega a conta com FOR UPDATE dentro da transação do caller.
// Toda unidade transacional que mexe em saldo começa por aqui.
func (l *Ledger) LockAccountTx(ctx context.Context, tx *sql.Tx, id string) (*Account, error) {
	acct, err := scanAccount(tx.QueryRowContext(ctx,
		`SELECT id, username, balance_cents, status, roles, created_at, last_active
		 FROM accounts WHERE id=$1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// CreditTx incrementa o saldo da conta e atualiza last_active.
func (l *Ledger) CreditTx(ctx context.Context, tx *sql.Tx, accountID string, amountCents int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + $1, last_active = NOW() WHERE id=$2`,
		amountCents, accountID)
	return err
}

// DebitTx decrementa o saldo da conta; falha com ErrInsufficientFunds se o
// saldo resultante ficaria negativo. A condição no WHERE garante o invariante
// mesmo fora do lock.
func (l *Ledger) DebitTx(ctx context.Context, tx *sql.Tx, accountID string, amountCents int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents - $1, last_active = NOW()
		 WHERE id=$2 AND balance_cents >= $1`,
		amountCents, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// Deposit credita a conta e registra o lançamento no journal, em uma transação.
func (l *Ledger) Deposit(ctx context.Context, accountID string, amountCents int64) (newBalance int64, err error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	acct, err := l.LockAccountTx(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	if !acct.IsActive() {
		return 0, ErrAccountNotActive
	}

	if err = l.CreditTx(ctx, tx, accountID, amountCents); err != nil {
		return 0, err
	}

	if _, err = l.journal.RecordTx(ctx, tx, Entry{
		AccountID:   accountID,
		AmountCents: amountCents,
		Kind:        KindDeposit,
		Status:      EntryCompleted,
		Detail:      "Deposit",
	}); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return acct.BalanceCents + amountCents, nil
}

// UpdateStatus transiciona o status da conta (ACTIVE/SUSPENDED/BLOCKED).
// Contas nunca são removidas, apenas transicionadas.
func (l *Ledger) UpdateStatus(ctx context.Context, accountID, status string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE accounts SET status=$1 WHERE id=$2`, status, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var a Account
	var lastActive sql.NullTime
	if err := row.Scan(&a.ID, &a.Username, &a.BalanceCents, &a.Status,
		pq.Array(&a.Roles), &a.CreatedAt, &lastActive); err != nil {
		return nil, err
	}
	if lastActive.Valid {
		a.LastActive = lastActive.Time
	} else {
		a.LastActive = time.Time{}
	}
	return &a, nil
}
