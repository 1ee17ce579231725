package withdrawal

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/coinflip-casino-poc/internal/ledger"
)

const testMinWithdrawal = int64(100000) // ₹1000

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop()
	journal := ledger.NewJournal(db, log)
	book := ledger.NewLedger(db, journal, 0)
	return NewService(db, log, book, journal, nil, testMinWithdrawal, time.UTC), mock, db
}

func accountRows(id string, balance int64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "balance_cents", "status", "roles", "created_at", "last_active"}).
		AddRow(id, "player1", balance, status, "{}", time.Now(), time.Now())
}

func expectLockAccount(mock sqlmock.Sqlmock, id string, balance int64, status string) {
	mock.ExpectQuery(`FROM accounts WHERE id=\$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(accountRows(id, balance, status))
}

func expectNoRequestToday(mock sqlmock.Sqlmock, accountID string) {
	mock.ExpectQuery(`FROM withdrawal_requests\s+WHERE account_id=\$1 AND created_at >= \$2`).
		WithArgs(accountID, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
}

// Saque de todo o saldo: débito imediato (retenção), pedido PENDING e
// lançamento PENDING/WITHDRAWAL negativo referenciando o pedido.
func TestService_Create_holdsFunds(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	expectLockAccount(mock, "acc-1", 100000, ledger.StatusActive)
	expectNoRequestToday(mock, "acc-1")
	mock.ExpectExec(`UPDATE accounts SET balance_cents = balance_cents - \$1`).
		WithArgs(int64(100000), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO withdrawal_requests`).
		WithArgs(sqlmock.AnyArg(), "acc-1", int64(100000), MethodUPI, "player@upi", StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO ledger_entries`).
		WithArgs(sqlmock.AnyArg(), "acc-1", int64(-100000), ledger.KindWithdrawal, ledger.EntryPending,
			"Withdrawal Request - UPI: player@upi", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := svc.Create(context.Background(), "acc-1", 100000, "upi", "player@upi")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, int64(100000), req.AmountCents)
	assert.NotEmpty(t, req.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_duplicateDailyRequest(t *testing.T) {
	svc, mock, _ := newTestService(t)

	existing := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	expectLockAccount(mock, "acc-1", 500000, ledger.StatusActive)
	mock.ExpectQuery(`FROM withdrawal_requests\s+WHERE account_id=\$1 AND created_at >= \$2`).
		WithArgs("acc-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"status", "amount_cents", "created_at"}).
			AddRow(StatusPending, int64(150000), existing))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "acc-1", 100000, MethodUPI, "player@upi")

	var dup *DuplicateRequestError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, StatusPending, dup.Status)
	assert.Equal(t, int64(150000), dup.AmountCents)
	assert.Equal(t, existing, dup.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_insufficientFunds(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	expectLockAccount(mock, "acc-1", 50000, ledger.StatusActive)
	expectNoRequestToday(mock, "acc-1")
	mock.ExpectExec(`UPDATE accounts SET balance_cents = balance_cents - \$1`).
		WithArgs(int64(100000), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "acc-1", 100000, MethodUPI, "player@upi")
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		amount  int64
		method  string
		details string
		wantErr error
	}{
		{"below minimum", testMinWithdrawal - 1, MethodUPI, "player@upi", ErrBelowMinimum},
		{"unsupported method", testMinWithdrawal, "PIX", "player@upi", ErrInvalidPaymentDetails},
		{"details too short", testMinWithdrawal, MethodUPI, "a@b", ErrInvalidPaymentDetails},
		{"upi without at sign", testMinWithdrawal, MethodUPI, "playerupi", ErrInvalidPaymentDetails},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "acc-1", tt.amount, tt.method, tt.details)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Create_inactiveAccount(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	expectLockAccount(mock, "acc-1", 500000, ledger.StatusBlocked)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "acc-1", 100000, MethodUPI, "player@upi")
	assert.ErrorIs(t, err, ledger.ErrAccountNotActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectRequestForUpdate(mock sqlmock.Sqlmock, id, accountID string, amount int64, status string) {
	mock.ExpectQuery(`FROM withdrawal_requests WHERE id=\$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "amount_cents", "status"}).
			AddRow(id, accountID, amount, status))
}

// Aprovação não mexe no saldo: os fundos já saíram na criação.
func TestService_Approve(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	expectRequestForUpdate(mock, "req-1", "acc-1", 100000, StatusPending)
	mock.ExpectExec(`UPDATE ledger_entries SET status=\$1`).
		WithArgs(ledger.EntryCompleted, "req-1", ledger.EntryPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE withdrawal_requests SET status=\$1`).
		WithArgs(StatusApproved, "req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Approve(context.Background(), "req-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Rejeição devolve a retenção e marca o lançamento como FAILED.
func TestService_Reject(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	expectRequestForUpdate(mock, "req-1", "acc-1", 100000, StatusPending)
	mock.ExpectExec(`UPDATE accounts SET balance_cents = balance_cents \+ \$1`).
		WithArgs(int64(100000), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE ledger_entries SET status=\$1`).
		WithArgs(ledger.EntryFailed, "req-1", ledger.EntryPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE withdrawal_requests SET status=\$1`).
		WithArgs(StatusRejected, "req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Reject(context.Background(), "req-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Decisão é terminal: a segunda chamada falha sem nenhuma mutação.
func TestService_Reject_alreadyDecided(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	expectRequestForUpdate(mock, "req-1", "acc-1", 100000, StatusRejected)
	mock.ExpectRollback()

	err := svc.Reject(context.Background(), "req-1")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_notFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM withdrawal_requests WHERE id=\$1 FOR UPDATE`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := svc.Approve(context.Background(), "ghost")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_History(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(`FROM withdrawal_requests WHERE account_id=\$1`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "amount_cents", "method", "details", "status", "created_at", "decided_at"}).
			AddRow("req-2", "acc-1", int64(200000), MethodUPI, "p@upi", StatusPending, time.Now(), nil).
			AddRow("req-1", "acc-1", int64(100000), MethodUPI, "p@upi", StatusApproved, time.Now(), time.Now()))

	reqs, err := svc.History(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.True(t, reqs[0].DecidedAt.IsZero())
	assert.False(t, reqs[1].DecidedAt.IsZero())
}
