package dto

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
}

type DepositRequest struct {
	AccountID   string `json:"account_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
}

type PlayRequest struct {
	AccountID  string `json:"account_id" validate:"required"`
	StakeCents int64  `json:"stake_cents" validate:"required,gt=0"`
	Choice     string `json:"choice" validate:"required,oneof=heads tails"`
}

type CreateWithdrawalRequest struct {
	AccountID   string `json:"account_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Method      string `json:"method" validate:"required"`  // ex: "UPI"
	Details     string `json:"details" validate:"required"` // ex: "user@upi"
}
