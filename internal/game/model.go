package game

import "time"

// Lados da moeda
const (
	Heads = "heads"
	Tails = "tails"
)

// Round é uma rodada resolvida de cara-ou-coroa. Imutável depois de criada.
type Round struct {
	ID         string
	AccountID  string
	StakeCents int64
	Choice     string
	Outcome    string
	Won        bool
	PlayedAt   time.Time
}

// StakeStats agrega rodadas por valor de aposta (tela admin).
type StakeStats struct {
	StakeCents        int64
	Rounds            int64
	TotalPaidOutCents int64
}

// opposite devolve o lado contrário da escolha do jogador.
func opposite(choice string) string {
	if choice == Heads {
		return Tails
	}
	return Heads
}

func validChoice(choice string) bool {
	return choice == Heads || choice == Tails
}
