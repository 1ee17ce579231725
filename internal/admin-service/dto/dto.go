package dto

import "time"

type UpdateAccountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED BLOCKED"`
}

type WithdrawalItem struct {
	RequestID   string    `json:"request_id"`
	AccountID   string    `json:"account_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	Details     string    `json:"details"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	DecidedAt   time.Time `json:"decided_at,omitempty"`
}

type DecisionResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

type StakeStatsItem struct {
	StakeCents        int64 `json:"stake_cents"`
	Rounds            int64 `json:"rounds"`
	TotalPaidOutCents int64 `json:"total_paid_out_cents"`
}

type JournalItem struct {
	EntryID     string    `json:"entry_id"`
	AccountID   string    `json:"account_id"`
	AmountCents int64     `json:"amount_cents"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Detail      string    `json:"detail"`
	RequestID   string    `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
