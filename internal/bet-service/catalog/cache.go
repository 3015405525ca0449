package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
)

// RedisCache guarda a listagem completa de eventos de um dia (sem filtro de
// visibilidade); o filtro é aplicado depois, por quem lê
type RedisCache struct {
	R   *redis.Client
	TTL time.Duration
}

func NewRedisCache(r *redis.Client, ttl time.Duration) *RedisCache { return &RedisCache{R: r, TTL: ttl} }

func keyDay(day time.Time) string { return "catalog:events:" + day.UTC().Format(time.DateOnly) }

func (c *RedisCache) GetDay(ctx context.Context, day time.Time) ([]model.Event, bool, error) {
	b, err := c.R.Get(ctx, keyDay(day)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var evs []model.Event
	if err := json.Unmarshal(b, &evs); err != nil {
		return nil, false, err
	}
	return evs, true, nil
}

func (c *RedisCache) SetDay(ctx context.Context, day time.Time, evs []model.Event) error {
	b, err := json.Marshal(evs)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, keyDay(day), b, c.TTL).Err()
}

func (c *RedisCache) InvalidateDay(ctx context.Context, day time.Time) error {
	return c.R.Del(ctx, keyDay(day)).Err()
}
