package ledger

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Journal é a trilha de auditoria append-only dos eventos que afetam saldo.
// Lançamentos nunca são editados depois de COMPLETED/FAILED; a única mutação
// permitida é a transição de status de lançamentos PENDING.
type Journal struct {
	db  *sql.DB
	log *zap.Logger
}

func NewJournal(db *sql.DB, log *zap.Logger) *Journal {
	return &Journal{db: db, log: log}
}

// RecordTx insere um lançamento dentro da transação do caller e retorna o id.
func (j *Journal) RecordTx(ctx context.Context, tx *sql.Tx, e Entry) (string, error) {
	id := uuid.NewString()
	var requestID any
	if e.RequestID != "" {
		requestID = e.RequestID
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, account_id, amount_cents, kind, status, detail, request_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, e.AccountID, e.AmountCents, e.Kind, e.Status, e.Detail, requestID)
	if err != nil {
		return "", err
	}
	return id, nil
}

// TransitionByRequestTx efetiva a transição PENDING -> COMPLETED|FAILED do
// lançamento que referencia o pedido de saque. O saldo é a fonte de verdade;
// se não houver lançamento correspondente o problema é logado para
// reconciliação, sem abortar a transação do caller.
func (j *Journal) TransitionByRequestTx(ctx context.Context, tx *sql.Tx, requestID, newStatus string) {
	res, err := tx.ExecContext(ctx, `
		UPDATE ledger_entries SET status=$1
		WHERE request_id=$2 AND status=$3`,
		newStatus, requestID, EntryPending)
	if err != nil {
		j.log.Warn("journal transition failed",
			zap.String("requestId", requestID), zap.Error(err))
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		j.log.Warn("no pending journal entry for request",
			zap.String("requestId", requestID), zap.String("newStatus", newStatus))
	}
}

// ListByAccount retorna os lançamentos de uma conta, mais recentes primeiro.
func (j *Journal) ListByAccount(ctx context.Context, accountID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, account_id, amount_cents, kind, status, detail, COALESCE(request_id::text,''), created_at
		FROM ledger_entries WHERE account_id=$1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListAll retorna os lançamentos mais recentes da plataforma (tela admin).
func (j *Journal) ListAll(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, account_id, amount_cents, kind, status, detail, COALESCE(request_id::text,''), created_at
		FROM ledger_entries ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.AmountCents, &e.Kind,
			&e.Status, &e.Detail, &e.RequestID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
