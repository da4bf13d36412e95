package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda a janela apostável de eventos no Redis por um TTL curto.
// Mutação de catálogo pelo admin invalida a chave.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyWindow(from string) string { return "betting:window:" + from }

func (c *Cache) GetWindow(ctx context.Context, from string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyWindow(from)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetWindow(ctx context.Context, from string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyWindow(from), b, ttl).Err()
}

// InvalidateWindows remove as janelas cacheadas após create/update/delete de evento
func (c *Cache) InvalidateWindows(ctx context.Context) error {
	iter := c.R.Scan(ctx, 0, "betting:window:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.R.Del(ctx, keys...).Err()
}
