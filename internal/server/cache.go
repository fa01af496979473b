package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// stateCacheTTL is short on purpose: the cache only absorbs the polling
// fan-in between writes, it is never the source of truth.
const stateCacheTTL = 5 * time.Second

// stateCache is a read-through Redis cache for the high-frequency
// GameState poll. A nil *stateCache disables caching entirely; every
// method is nil-safe so handlers never branch on configuration.
type stateCache struct {
	rdb *redis.Client
}

func newStateCache(rdb *redis.Client) *stateCache {
	if rdb == nil {
		return nil
	}
	return &stateCache{rdb: rdb}
}

func stateKey(matchID int64) string {
	return fmt.Sprintf("game:%d:state", matchID)
}

func (c *stateCache) Get(ctx context.Context, matchID int64) (GameState, bool) {
	var gs GameState
	if c == nil {
		return gs, false
	}
	data, err := c.rdb.Get(ctx, stateKey(matchID)).Bytes()
	if err != nil {
		return gs, false
	}
	if err := json.Unmarshal(data, &gs); err != nil {
		return gs, false
	}
	return gs, true
}

// Set writes through after every successful mutation and read-miss.
func (c *stateCache) Set(ctx context.Context, matchID int64, gs GameState) {
	if c == nil {
		return
	}
	data, err := json.Marshal(gs)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, stateKey(matchID), data, stateCacheTTL)
}

func (c *stateCache) Invalidate(ctx context.Context, matchID int64) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, stateKey(matchID))
}
