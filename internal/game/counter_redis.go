package game

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCounter implementa CounterStore sobre Redis. INCR é atômico no
// servidor, então várias instâncias do casino-service enxergam a mesma
// sequência por valor de aposta.
type RedisCounter struct {
	Rdb *redis.Client
}

func NewRedisCounter(r *redis.Client) *RedisCounter { return &RedisCounter{Rdb: r} }

// Chave "win_counter:{stake_cents}" => contador monotônico de jogadas
func (c *RedisCounter) Next(ctx context.Context, stakeCents int64) (int64, error) {
	key := fmt.Sprintf("win_counter:%d", stakeCents)
	return c.Rdb.Incr(ctx, key).Result()
}
