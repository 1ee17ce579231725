package reconciliation

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/radieske/coinflip-casino-poc/internal/shared/metrics"
)

// Checker reconfere o invariante de contabilidade de uma conta:
// saldo corrente == soma dos lançamentos COMPLETED + soma dos PENDING
// (as retenções de saque entram negativas enquanto pendentes; FAILED fica
// de fora porque o estorno já devolveu o saldo).
type Checker struct {
	db  *sql.DB
	log *zap.Logger
}

func NewChecker(db *sql.DB, log *zap.Logger) *Checker {
	return &Checker{db: db, log: log}
}

// CheckAccount compara saldo e journal; divergência é logada e contada,
// nunca corrigida automaticamente.
func (c *Checker) CheckAccount(ctx context.Context, accountID string) (ok bool, err error) {
	var balance int64
	err = c.db.QueryRowContext(ctx,
		`SELECT balance_cents FROM accounts WHERE id=$1`, accountID).Scan(&balance)
	if err == sql.ErrNoRows {
		c.log.Warn("reconciliation: unknown account", zap.String("accountId", accountID))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var completed, pending int64
	err = c.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status='COMPLETED' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status='PENDING'   THEN amount_cents ELSE 0 END), 0)
		FROM ledger_entries WHERE account_id=$1`, accountID).Scan(&completed, &pending)
	if err != nil {
		return false, err
	}

	if balance != completed+pending {
		metrics.ReconciliationMismatches.Inc()
		c.log.Error("reconciliation mismatch",
			zap.String("accountId", accountID),
			zap.Int64("balanceCents", balance),
			zap.Int64("completedCents", completed),
			zap.Int64("pendingCents", pending),
		)
		return false, nil
	}
	return true, nil
}
