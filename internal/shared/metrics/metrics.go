package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negócio expostos em /metrics.
var (
	RoundsPlayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_rounds_played_total",
		Help: "Rodadas de cara-ou-coroa resolvidas, por resultado.",
	}, []string{"result"}) // "won" | "lost"

	PaidOutCents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_paid_out_cents_total",
		Help: "Total pago em vitórias, em centavos.",
	})

	WithdrawalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_withdrawal_requests_total",
		Help: "Pedidos de saque criados.",
	})

	WithdrawalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_withdrawal_decisions_total",
		Help: "Decisões de saque, por desfecho.",
	}, []string{"decision"}) // "approved" | "rejected"

	ReconciliationMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_reconciliation_mismatches_total",
		Help: "Contas cujo saldo divergiu da soma do journal.",
	})
)
