package withdrawal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/coinflip-casino-poc/internal/ledger"
	"github.com/radieske/coinflip-casino-poc/internal/shared/metrics"
	"github.com/radieske/coinflip-casino-poc/pkg/contracts/events"
)

// Publisher publica decisões de saque (best effort, pós-commit).
type Publisher interface {
	PublishWithdrawalDecided(ctx context.Context, e events.WithdrawalDecided) error
}

// Service implementa o ciclo de vida de saques: criação com retenção
// imediata de fundos e decisão admin (aprovar/rejeitar). Cada operação é
// uma transação única: saldo, journal e pedido mudam juntos ou nada muda.
type Service struct {
	db      *sql.DB
	log     *zap.Logger
	ledger  *ledger.Ledger
	journal *ledger.Journal
	publ    Publisher // opcional; só o admin-service publica decisões

	minAmountCents int64
	loc            *time.Location // fuso de referência do limite diário
}

func NewService(db *sql.DB, log *zap.Logger, l *ledger.Ledger, j *ledger.Journal,
	p Publisher, minAmountCents int64, loc *time.Location) *Service {
	return &Service{
		db: db, log: log, ledger: l, journal: j, publ: p,
		minAmountCents: minAmountCents, loc: loc,
	}
}

// Create valida e cria um pedido de saque PENDING, retendo os fundos:
// o valor sai do saldo disponível no ato e um lançamento PENDING/WITHDRAWAL
// negativo entra no journal referenciando o pedido.
func (s *Service) Create(ctx context.Context, accountID string, amountCents int64, method, details string) (*Request, error) {
	if amountCents < s.minAmountCents {
		return nil, ErrBelowMinimum
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	details = strings.TrimSpace(details)
	if method != MethodUPI {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidPaymentDetails, method)
	}
	if len(details) < 5 {
		return nil, fmt.Errorf("%w: details too short", ErrInvalidPaymentDetails)
	}
	if !strings.Contains(details, "@") {
		return nil, fmt.Errorf("%w: malformed UPI id", ErrInvalidPaymentDetails)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	acct, err := s.ledger.LockAccountTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsActive() {
		return nil, ledger.ErrAccountNotActive
	}

	// Limite diário avaliado depois do lock da conta: duas criações
	// simultâneas no mesmo dia não passam ambas.
	if dup, derr := s.requestSinceTx(ctx, tx, accountID, startOfDay(time.Now().In(s.loc))); derr != nil {
		return nil, derr
	} else if dup != nil {
		return nil, dup
	}

	// Retenção: débito imediato do saldo disponível
	if err = s.ledger.DebitTx(ctx, tx, accountID, amountCents); err != nil {
		return nil, err
	}

	req := &Request{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		AmountCents: amountCents,
		Method:      method,
		Details:     details,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO withdrawal_requests (id, account_id, amount_cents, method, details, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		req.ID, req.AccountID, req.AmountCents, req.Method, req.Details, req.Status); err != nil {
		return nil, err
	}

	if _, err = s.journal.RecordTx(ctx, tx, ledger.Entry{
		AccountID:   accountID,
		AmountCents: -amountCents,
		Kind:        ledger.KindWithdrawal,
		Status:      ledger.EntryPending,
		Detail:      "Withdrawal Request - " + method + ": " + details,
		RequestID:   req.ID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	metrics.WithdrawalRequests.Inc()
	return req, nil
}

// Approve torna a retenção permanente. O saldo já foi debitado na criação,
// então não há mutação de saldo aqui: o lançamento do journal vira COMPLETED
// e o pedido vira APPROVED.
func (s *Service) Approve(ctx context.Context, requestID string) error {
	return s.decide(ctx, requestID, StatusApproved)
}

// Reject devolve a retenção: crédito do valor de volta ao saldo, lançamento
// do journal vira FAILED e o pedido vira REJECTED.
func (s *Service) Reject(ctx context.Context, requestID string) error {
	return s.decide(ctx, requestID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, requestID, decision string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var req Request
	err = tx.QueryRowContext(ctx, `
		SELECT id, account_id, amount_cents, status
		FROM withdrawal_requests WHERE id=$1 FOR UPDATE`, requestID).
		Scan(&req.ID, &req.AccountID, &req.AmountCents, &req.Status)
	if err == sql.ErrNoRows {
		return ledger.ErrNotFound
	}
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return ErrInvalidState
	}

	entryStatus := ledger.EntryCompleted
	if decision == StatusRejected {
		entryStatus = ledger.EntryFailed
		if err = s.ledger.CreditTx(ctx, tx, req.AccountID, req.AmountCents); err != nil {
			return err
		}
	}

	s.journal.TransitionByRequestTx(ctx, tx, req.ID, entryStatus)

	if _, err = tx.ExecContext(ctx, `
		UPDATE withdrawal_requests SET status=$1, decided_at=NOW() WHERE id=$2`,
		decision, req.ID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	metrics.WithdrawalDecisions.WithLabelValues(strings.ToLower(decision)).Inc()

	if s.publ != nil {
		if perr := s.publ.PublishWithdrawalDecided(ctx, events.WithdrawalDecided{
			RequestID:   req.ID,
			AccountID:   req.AccountID,
			AmountCents: req.AmountCents,
			Status:      decision,
			Ts:          time.Now(),
		}); perr != nil {
			s.log.Warn("publish withdrawal_decided", zap.String("requestId", req.ID), zap.Error(perr))
		}
	}
	return nil
}

// requestSinceTx é o rate limiter: devolve os dados do pedido existente se a
// conta já criou algum (qualquer status) desde o início do dia corrente.
func (s *Service) requestSinceTx(ctx context.Context, tx *sql.Tx, accountID string, since time.Time) (*DuplicateRequestError, error) {
	var dup DuplicateRequestError
	err := tx.QueryRowContext(ctx, `
		SELECT status, amount_cents, created_at
		FROM withdrawal_requests
		WHERE account_id=$1 AND created_at >= $2
		ORDER BY created_at DESC LIMIT 1`, accountID, since).
		Scan(&dup.Status, &dup.AmountCents, &dup.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dup, nil
}

// History retorna os pedidos de uma conta, mais recentes primeiro.
func (s *Service) History(ctx context.Context, accountID string) ([]Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, amount_cents, method, details, status, created_at, decided_at
		FROM withdrawal_requests WHERE account_id=$1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListByStatus retorna a fila admin; status vazio lista tudo.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]Request, error) {
	q := `SELECT id, account_id, amount_cents, method, details, status, created_at, decided_at
	      FROM withdrawal_requests ORDER BY created_at ASC`
	args := []any{}
	if status != "" {
		q = `SELECT id, account_id, amount_cents, method, details, status, created_at, decided_at
		     FROM withdrawal_requests WHERE status=$1 ORDER BY created_at ASC`
		args = append(args, status)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows *sql.Rows) ([]Request, error) {
	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
