package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestJournal_RecordTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	journal := NewJournal(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO ledger_entries`).
		WithArgs(sqlmock.AnyArg(), "acc-1", int64(-100000), KindWithdrawal, EntryPending,
			"Withdrawal Request - UPI: user@upi", "req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	id, err := journal.RecordTx(context.Background(), tx, Entry{
		AccountID:   "acc-1",
		AmountCents: -100000,
		Kind:        KindWithdrawal,
		Status:      EntryPending,
		Detail:      "Withdrawal Request - UPI: user@upi",
		RequestID:   "req-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_TransitionByRequestTx_noMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	journal := NewJournal(db, zap.NewNop())

	mock.ExpectBegin()
	// nenhum lançamento PENDING para o pedido: só loga, não aborta
	mock.ExpectExec(`UPDATE ledger_entries SET status=\$1`).
		WithArgs(EntryCompleted, "req-unknown", EntryPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Begin()
	require.NoError(t, err)

	journal.TransitionByRequestTx(context.Background(), tx, "req-unknown", EntryCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_ListByAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	journal := NewJournal(db, zap.NewNop())

	mock.ExpectQuery(`FROM ledger_entries WHERE account_id=\$1`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "amount_cents", "kind", "status", "detail", "request_id", "created_at"}).
			AddRow("e2", "acc-1", int64(-100000), KindWithdrawal, EntryPending, "Withdrawal Request - UPI: u@upi", "req-1", testTime()).
			AddRow("e1", "acc-1", int64(100000), KindDeposit, EntryCompleted, "Deposit", "", testTime()))

	entries, err := journal.ListByAccount(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, KindDeposit, entries[1].Kind)
}
