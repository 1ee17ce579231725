package game

import (
	"context"
	"sync"
	"sync/atomic"
)

// CounterStore mantém o contador global de jogadas por valor de aposta,
// compartilhado entre todas as contas. A política de resultado depende dele:
// a jogada é vitória forçada exatamente quando o contador atinge o múltiplo
// configurado. O incremento precisa ser atômico sob concorrência.
type CounterStore interface {
	// Next incrementa e devolve o valor do contador para o stake dado.
	Next(ctx context.Context, stakeCents int64) (int64, error)
}

// MemoryCounter implementa CounterStore em memória, válido para um único
// processo (testes e execução local). Produção usa RedisCounter.
type MemoryCounter struct {
	counters sync.Map // stakeCents -> *int64
}

func NewMemoryCounter() *MemoryCounter { return &MemoryCounter{} }

func (m *MemoryCounter) Next(_ context.Context, stakeCents int64) (int64, error) {
	v, _ := m.counters.LoadOrStore(stakeCents, new(int64))
	return atomic.AddInt64(v.(*int64), 1), nil
}
