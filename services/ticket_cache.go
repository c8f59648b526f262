package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ticket-desk/models"

	"github.com/redis/go-redis/v9"
)

// TicketCache caches public ticket-detail lookups by ticket code. The
// public view is the hot path (shared links), so a short TTL keeps load
// off the store without letting stale validation state linger.
type TicketCache struct {
	Redis *redis.Client
	ttl   time.Duration
}

func NewTicketCache(redisClient *redis.Client, ttl time.Duration) *TicketCache {
	return &TicketCache{Redis: redisClient, ttl: ttl}
}

func cacheKey(code string) string {
	return fmt.Sprintf("ticket:view:%s", code)
}

func (c *TicketCache) Get(ctx context.Context, code string) (*models.Ticket, bool) {
	data, err := c.Redis.Get(ctx, cacheKey(code)).Bytes()
	if err != nil {
		// redis.Nil and transient failures both read as a miss
		return nil, false
	}

	var ticket models.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, false
	}
	return &ticket, true
}

func (c *TicketCache) Set(ctx context.Context, code string, ticket *models.Ticket) {
	data, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	c.Redis.Set(ctx, cacheKey(code), data, c.ttl)
}

func (c *TicketCache) Invalidate(ctx context.Context, codes ...string) {
	for _, code := range codes {
		c.Redis.Del(ctx, cacheKey(code))
	}
}

// InvalidateAll drops every cached ticket view. Used after a bulk clear.
func (c *TicketCache) InvalidateAll(ctx context.Context) {
	keys, err := c.Redis.Keys(ctx, cacheKey("*")).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.Redis.Del(ctx, keys...)
}
