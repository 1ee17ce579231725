package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/radieske/coinflip-casino-poc/internal/admin-service/dto"
	"github.com/radieske/coinflip-casino-poc/internal/game"
	"github.com/radieske/coinflip-casino-poc/internal/ledger"
	"github.com/radieske/coinflip-casino-poc/internal/withdrawal"
)

// WithdrawalAdmin define as operações de decisão e fila de saques
type WithdrawalAdmin interface {
	Approve(ctx context.Context, requestID string) error
	Reject(ctx context.Context, requestID string) error
	ListByStatus(ctx context.Context, status string) ([]withdrawal.Request, error)
}

// GameAdmin expõe o agregado de estatísticas por valor de aposta
type GameAdmin interface {
	Stats(ctx context.Context) ([]game.StakeStats, error)
}

// JournalAdmin expõe a listagem da trilha de auditoria
type JournalAdmin interface {
	ListAll(ctx context.Context, limit int) ([]ledger.Entry, error)
}

// AccountAdmin expõe a transição de status de contas
type AccountAdmin interface {
	UpdateStatus(ctx context.Context, accountID, status string) error
}

// Server expõe a API HTTP de administração. O caller já chega autorizado
// como admin; controle de acesso fica fora do core.
type Server struct {
	log         *zap.Logger
	validate    *validator.Validate
	withdrawals WithdrawalAdmin
	games       GameAdmin
	journal     JournalAdmin
	accounts    AccountAdmin
}

func NewServer(log *zap.Logger, w WithdrawalAdmin, g GameAdmin, j JournalAdmin, a AccountAdmin) *Server {
	return &Server{
		log:         log,
		validate:    validator.New(),
		withdrawals: w,
		games:       g,
		journal:     j,
		accounts:    a,
	}
}

// Router retorna o mux HTTP com as rotas admin
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/withdrawals", s.listWithdrawals)   // GET ?status=...
	mux.HandleFunc("/admin/withdrawals/", s.decideWithdrawal) // POST /admin/withdrawals/{id}/approve|reject
	mux.HandleFunc("/admin/stats", s.stats)                   // GET
	mux.HandleFunc("/admin/transactions", s.transactions)     // GET ?limit=...
	mux.HandleFunc("/admin/accounts/", s.updateAccountStatus) // PUT /admin/accounts/{id}/status
	return mux
}

// listWithdrawals lista a fila de saques, opcionalmente filtrada por status
func (s *Server) listWithdrawals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	status := strings.ToUpper(r.URL.Query().Get("status"))
	reqs, err := s.withdrawals.ListByStatus(r.Context(), status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.WithdrawalItem, 0, len(reqs))
	for _, wr := range reqs {
		out = append(out, dto.WithdrawalItem{
			RequestID:   wr.ID,
			AccountID:   wr.AccountID,
			AmountCents: wr.AmountCents,
			Method:      wr.Method,
			Details:     wr.Details,
			Status:      wr.Status,
			CreatedAt:   wr.CreatedAt,
			DecidedAt:   wr.DecidedAt,
		})
	}
	writeJSON(w, out)
}

// decideWithdrawal aprova ou rejeita um pedido PENDING
// path: /admin/withdrawals/{id}/approve ou /admin/withdrawals/{id}/reject
func (s *Server) decideWithdrawal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/admin/withdrawals/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "requestId and action required", http.StatusBadRequest)
		return
	}
	requestID, action := parts[0], parts[1]

	var err error
	var status string
	switch action {
	case "approve":
		err = s.withdrawals.Approve(r.Context(), requestID)
		status = withdrawal.StatusApproved
	case "reject":
		err = s.withdrawals.Reject(r.Context(), requestID)
		status = withdrawal.StatusRejected
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	writeJSON(w, dto.DecisionResponse{RequestID: requestID, Status: status})
}

// stats agrega rodadas e total pago por valor de aposta
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats, err := s.games.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.StakeStatsItem, 0, len(stats))
	for _, st := range stats {
		out = append(out, dto.StakeStatsItem{
			StakeCents:        st.StakeCents,
			Rounds:            st.Rounds,
			TotalPaidOutCents: st.TotalPaidOutCents,
		})
	}
	writeJSON(w, out)
}

// transactions lista os lançamentos mais recentes do journal
func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.journal.ListAll(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.JournalItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.JournalItem{
			EntryID:     e.ID,
			AccountID:   e.AccountID,
			AmountCents: e.AmountCents,
			Kind:        e.Kind,
			Status:      e.Status,
			Detail:      e.Detail,
			RequestID:   e.RequestID,
			CreatedAt:   e.CreatedAt,
		})
	}
	writeJSON(w, out)
}

// updateAccountStatus transiciona o status de uma conta
// path: PUT /admin/accounts/{id}/status
func (s *Server) updateAccountStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/admin/accounts/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	var req dto.UpdateAccountStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := s.accounts.UpdateStatus(r.Context(), parts[0], req.Status); err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, withdrawal.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
