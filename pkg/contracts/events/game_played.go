package events

type GamePlayed struct {
	RoundID      string `json:"round_id"`
	AccountID    string `json:"account_id"`
	StakeCents   int64  `json:"stake_cents"`
	Choice       string `json:"choice"`  // "heads" | "tails"
	Outcome      string `json:"outcome"` // "heads" | "tails"
	Won          bool   `json:"won"`
	BalanceCents int64  `json:"balance_cents"` // saldo após a rodada
	TsUnixMs     int64  `json:"ts_unix_ms"`
}
