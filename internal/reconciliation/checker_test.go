package reconciliation

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func expectSums(mock sqlmock.Sqlmock, accountID string, balance, completed, pending int64) {
	mock.ExpectQuery(`SELECT balance_cents FROM accounts WHERE id=\$1`).
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(balance))
	mock.ExpectQuery(`FROM ledger_entries WHERE account_id=\$1`).
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"completed", "pending"}).AddRow(completed, pending))
}

// Depósito de 1000 + retenção pendente de 1000: saldo zero confere.
func TestChecker_CheckAccount_balanced(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := NewChecker(db, zap.NewNop())

	expectSums(mock, "acc-1", 0, 100000, -100000)

	ok, err := c.CheckAccount(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChecker_CheckAccount_mismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := NewChecker(db, zap.NewNop())

	// journal diz 50000, conta diz 60000: divergência reportada, não corrigida
	expectSums(mock, "acc-1", 60000, 50000, 0)

	ok, err := c.CheckAccount(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
