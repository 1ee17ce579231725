package topics

const (
	// Jogo
	GamePlayed = "game_played"

	// Saques
	WithdrawalDecided = "withdrawal_decided"

	// DLQs
	GamePlayedDLQ        = "game_played_dlq"
	WithdrawalDecidedDLQ = "withdrawal_decided_dlq"
)
