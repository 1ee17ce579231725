package game

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/coinflip-casino-poc/internal/ledger"
	"github.com/radieske/coinflip-casino-poc/internal/shared/metrics"
	"github.com/radieske/coinflip-casino-poc/pkg/contracts/events"
)

// Publisher publica o evento de rodada resolvida (best effort, pós-commit).
type Publisher interface {
	PublishGamePlayed(ctx context.Context, e events.GamePlayed) error
}

// Engine resolve rodadas de cara-ou-coroa.
//
// Política de resultado (regra de negócio da plataforma, não um sorteio
// independente): um contador global por valor de aposta, compartilhado entre
// todas as contas, força vitória exatamente a cada winEvery jogadas naquele
// stake; as demais são derrota forçada. Contas com papel de admin vencem
// sempre, sem passar pelo contador. Na vitória o resultado copia a escolha
// do jogador; na derrota, o lado oposto.
type Engine struct {
	db      *sql.DB
	log     *zap.Logger
	ledger  *ledger.Ledger
	journal *ledger.Journal
	counter CounterStore
	publ    Publisher // opcional

	minStakeCents int64
	winEvery      int64
}

func NewEngine(db *sql.DB, log *zap.Logger, l *ledger.Ledger, j *ledger.Journal,
	c CounterStore, p Publisher, minStakeCents, winEvery int64) *Engine {
	return &Engine{
		db: db, log: log, ledger: l, journal: j, counter: c, publ: p,
		minStakeCents: minStakeCents, winEvery: winEvery,
	}
}

// Play resolve uma rodada: valida, decide o resultado, muta o saldo, grava o
// lançamento no journal e persiste a rodada — tudo em uma transação. Retorna
// a rodada e o saldo resultante.
func (e *Engine) Play(ctx context.Context, accountID string, stakeCents int64, choice string) (*Round, int64, error) {
	if !validChoice(choice) {
		return nil, 0, ErrInvalidChoice
	}
	if stakeCents < e.minStakeCents {
		return nil, 0, ErrInvalidStake
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	acct, err := e.ledger.LockAccountTx(ctx, tx, accountID)
	if err != nil {
		return nil, 0, err
	}
	if !acct.IsActive() {
		return nil, 0, ledger.ErrAccountNotActive
	}
	if acct.BalanceCents < stakeCents {
		return nil, 0, ledger.ErrInsufficientFunds
	}

	// Admin vence incondicionalmente; o contador só avança para os demais.
	won := acct.IsAdmin()
	if !won {
		n, cerr := e.counter.Next(ctx, stakeCents)
		if cerr != nil {
			return nil, 0, cerr
		}
		won = n%e.winEvery == 0
	}

	outcome := choice
	signed := stakeCents
	detail := "Coin Flip Game: Won"
	if won {
		err = e.ledger.CreditTx(ctx, tx, accountID, stakeCents)
	} else {
		outcome = opposite(choice)
		signed = -stakeCents
		detail = "Coin Flip Game: Lost"
		err = e.ledger.DebitTx(ctx, tx, accountID, stakeCents)
	}
	if err != nil {
		return nil, 0, err
	}

	if _, err = e.journal.RecordTx(ctx, tx, ledger.Entry{
		AccountID:   accountID,
		AmountCents: signed,
		Kind:        ledger.KindGame,
		Status:      ledger.EntryCompleted,
		Detail:      detail,
	}); err != nil {
		return nil, 0, err
	}

	round := &Round{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		StakeCents: stakeCents,
		Choice:     choice,
		Outcome:    outcome,
		Won:        won,
		PlayedAt:   time.Now(),
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO game_rounds (id, account_id, stake_cents, choice, outcome, won)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		round.ID, round.AccountID, round.StakeCents, round.Choice, round.Outcome, round.Won); err != nil {
		return nil, 0, err
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, err
	}

	newBalance := acct.BalanceCents + signed

	result := "lost"
	if won {
		result = "won"
		metrics.PaidOutCents.Add(float64(stakeCents))
	}
	metrics.RoundsPlayed.WithLabelValues(result).Inc()

	if e.publ != nil {
		if perr := e.publ.PublishGamePlayed(ctx, events.GamePlayed{
			RoundID:      round.ID,
			AccountID:    accountID,
			StakeCents:   stakeCents,
			Choice:       choice,
			Outcome:      outcome,
			Won:          won,
			BalanceCents: newBalance,
		}); perr != nil {
			e.log.Warn("publish game_played", zap.String("roundId", round.ID), zap.Error(perr))
		}
	}

	return round, newBalance, nil
}

// History retorna as rodadas de uma conta, mais recentes primeiro.
func (e *Engine) History(ctx context.Context, accountID string) ([]Round, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT id, account_id, stake_cents, choice, outcome, won, played_at
		FROM game_rounds WHERE account_id=$1 ORDER BY played_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.ID, &r.AccountID, &r.StakeCents, &r.Choice,
			&r.Outcome, &r.Won, &r.PlayedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats agrega rodadas e total pago por valor de aposta (tela admin).
func (e *Engine) Stats(ctx context.Context) ([]StakeStats, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT stake_cents, COUNT(*), COALESCE(SUM(CASE WHEN won THEN stake_cents ELSE 0 END), 0)
		FROM game_rounds GROUP BY stake_cents ORDER BY stake_cents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StakeStats
	for rows.Next() {
		var s StakeStats
		if err := rows.Scan(&s.StakeCents, &s.Rounds, &s.TotalPaidOutCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
