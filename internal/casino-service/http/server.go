package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/radieske/coinflip-casino-poc/internal/casino-service/dto"
	"github.com/radieske/coinflip-casino-poc/internal/game"
	"github.com/radieske/coinflip-casino-poc/internal/ledger"
	"github.com/radieske/coinflip-casino-poc/internal/withdrawal"
)

// GameCore define as operações de jogo usadas pelo handler HTTP
type GameCore interface {
	Play(ctx context.Context, accountID string, stakeCents int64, choice string) (*game.Round, int64, error)
	History(ctx context.Context, accountID string) ([]game.Round, error)
}

// WalletCore define as operações de conta/saldo usadas pelo handler HTTP
type WalletCore interface {
	GetOrCreateAccount(ctx context.Context, username string) (*ledger.Account, error)
	GetAccount(ctx context.Context, id string) (*ledger.Account, error)
	Deposit(ctx context.Context, accountID string, amountCents int64) (int64, error)
}

// WithdrawalCore define as operações de saque do lado do jogador
type WithdrawalCore interface {
	Create(ctx context.Context, accountID string, amountCents int64, method, details string) (*withdrawal.Request, error)
	History(ctx context.Context, accountID string) ([]withdrawal.Request, error)
}

// Server expõe a API HTTP do jogador: conta, depósito, jogo e saques.
// Autenticação fica fora do core; o caller já chega identificado.
type Server struct {
	log         *zap.Logger
	validate    *validator.Validate
	game        GameCore
	wallet      WalletCore
	withdrawals WithdrawalCore
}

func NewServer(log *zap.Logger, g GameCore, w WalletCore, wd WithdrawalCore) *Server {
	return &Server{
		log:         log,
		validate:    validator.New(),
		game:        g,
		wallet:      w,
		withdrawals: wd,
	}
}

// Router retorna o mux HTTP com as rotas da API do jogador
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", s.register)        // POST
	mux.HandleFunc("/account", s.getAccount)       // GET ?accountId=...
	mux.HandleFunc("/wallet/deposit", s.deposit)   // POST
	mux.HandleFunc("/game/play", s.play)           // POST
	mux.HandleFunc("/game/history", s.gameHistory) // GET ?accountId=...
	mux.HandleFunc("/withdrawals", s.withdrawalsRoot)
	return mux
}

// register cria (ou retorna) a conta de um usuário
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	acct, err := s.wallet.GetOrCreateAccount(r.Context(), req.Username)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	writeJSON(w, accountResponse(acct))
}

// getAccount retorna a conta e o saldo corrente
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	acct, err := s.wallet.GetAccount(r.Context(), accountID)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	writeJSON(w, accountResponse(acct))
}

// deposit credita saldo na conta do jogador
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	balance, err := s.wallet.Deposit(r.Context(), req.AccountID, req.AmountCents)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	writeJSON(w, dto.BalanceResponse{AccountID: req.AccountID, BalanceCents: balance})
}

// play resolve uma rodada de cara-ou-coroa
func (s *Server) play(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	round, balance, err := s.game.Play(r.Context(), req.AccountID, req.StakeCents, req.Choice)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	writeJSON(w, dto.PlayResponse{
		RoundID:      round.ID,
		Choice:       round.Choice,
		Outcome:      round.Outcome,
		Won:          round.Won,
		BalanceCents: balance,
	})
}

// gameHistory lista as rodadas do jogador
func (s *Server) gameHistory(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	rounds, err := s.game.History(r.Context(), accountID)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	out := make([]dto.RoundResponse, 0, len(rounds))
	for _, rd := range rounds {
		out = append(out, dto.RoundResponse{
			RoundID:    rd.ID,
			StakeCents: rd.StakeCents,
			Choice:     rd.Choice,
			Outcome:    rd.Outcome,
			Won:        rd.Won,
			PlayedAt:   rd.PlayedAt,
		})
	}
	writeJSON(w, out)
}

// withdrawalsRoot: POST cria pedido, GET lista o histórico do jogador
func (s *Server) withdrawalsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createWithdrawal(w, r)
	case http.MethodGet:
		s.withdrawalHistory(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) createWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	created, err := s.withdrawals.Create(r.Context(), req.AccountID, req.AmountCents, req.Method, req.Details)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	writeJSON(w, withdrawalResponse(created))
}

func (s *Server) withdrawalHistory(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	reqs, err := s.withdrawals.History(r.Context(), accountID)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	out := make([]dto.WithdrawalResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, withdrawalResponse(&reqs[i]))
	}
	writeJSON(w, out)
}

func accountResponse(a *ledger.Account) dto.AccountResponse {
	return dto.AccountResponse{
		AccountID:    a.ID,
		Username:     a.Username,
		BalanceCents: a.BalanceCents,
		Status:       a.Status,
	}
}

func withdrawalResponse(r *withdrawal.Request) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		RequestID:   r.ID,
		AmountCents: r.AmountCents,
		Method:      r.Method,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

// errStatus traduz os erros do core para status HTTP
func errStatus(err error) int {
	var dup *withdrawal.DuplicateRequestError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAccountNotActive):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, withdrawal.ErrInvalidState),
		errors.As(err, &dup):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidStake),
		errors.Is(err, game.ErrInvalidChoice),
		errors.Is(err, withdrawal.ErrBelowMinimum),
		errors.Is(err, withdrawal.ErrInvalidPaymentDetails):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
