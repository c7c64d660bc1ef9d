package classes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"classfit/internal/logger"
	"classfit/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "schedules:"

// ScheduleCache is the invalidate-and-reload contract between booking
// mutations and schedule listings: every successful mutation calls
// Invalidate, every listing goes through Get/Set.
type ScheduleCache interface {
	Get(ctx context.Context, f Filter) ([]Schedule, bool)
	Set(ctx context.Context, f Filter, schedules []Schedule)
	Invalidate(ctx context.Context)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) ScheduleCache {
	return &redisCache{client: client, ttl: ttl}
}

func cacheKey(f Filter) string {
	return fmt.Sprintf("%s%s|%s|%s", cachePrefix, f.Date, f.TimeFrom, f.TimeTo)
}

func (c *redisCache) Get(ctx context.Context, f Filter) ([]Schedule, bool) {
	data, err := c.client.Get(ctx, cacheKey(f)).Bytes()
	if err != nil {
		metrics.RecordScheduleCache("miss")
		return nil, false
	}

	var schedules []Schedule
	if err := json.Unmarshal(data, &schedules); err != nil {
		metrics.RecordScheduleCache("miss")
		return nil, false
	}

	metrics.RecordScheduleCache("hit")
	return schedules, true
}

func (c *redisCache) Set(ctx context.Context, f Filter, schedules []Schedule) {
	data, err := json.Marshal(schedules)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, cacheKey(f), data, c.ttl).Err(); err != nil {
		logger.Errorf("Failed to cache schedules: %v", err)
	}
}

// Invalidate drops every cached filter combination. Called after any
// booking mutation so the next listing reloads seat counts.
func (c *redisCache) Invalidate(ctx context.Context) {
	keys, err := c.client.Keys(ctx, cachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Errorf("Failed to invalidate schedule cache: %v", err)
	}
	metrics.RecordScheduleCache("invalidate")
}

// noopCache keeps the cache optional: without Redis every listing hits
// the store directly.
type noopCache struct{}

func NewNoopCache() ScheduleCache { return noopCache{} }

func (noopCache) Get(context.Context, Filter) ([]Schedule, bool) { return nil, false }
func (noopCache) Set(context.Context, Filter, []Schedule)        {}
func (noopCache) Invalidate(context.Context)                     {}
