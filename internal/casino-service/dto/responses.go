package dto

import "time"

type AccountResponse struct {
	AccountID    string `json:"account_id"`
	Username     string `json:"username"`
	BalanceCents int64  `json:"balance_cents"`
	Status       string `json:"status"`
}

type BalanceResponse struct {
	AccountID    string `json:"account_id"`
	BalanceCents int64  `json:"balance_cents"`
}

type PlayResponse struct {
	RoundID      string `json:"round_id"`
	Choice       string `json:"choice"`
	Outcome      string `json:"outcome"`
	Won          bool   `json:"won"`
	BalanceCents int64  `json:"balance_cents"`
}

type RoundResponse struct {
	RoundID    string    `json:"round_id"`
	StakeCents int64     `json:"stake_cents"`
	Choice     string    `json:"choice"`
	Outcome    string    `json:"outcome"`
	Won        bool      `json:"won"`
	PlayedAt   time.Time `json:"played_at"`
}

type WithdrawalResponse struct {
	RequestID   string    `json:"request_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
