package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsKey = "admin:dashboard:stats"

// Cache guarda os agregados do dashboard no Redis por um TTL curto,
// evitando repetir as queries de contagem a cada refresh do painel.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func (c *Cache) GetStats(ctx context.Context, dst any) (bool, error) {
	b, err := c.R.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetStats(ctx context.Context, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, statsKey, b, ttl).Err()
}
