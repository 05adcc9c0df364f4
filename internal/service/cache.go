package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"ormawa.id/internal/constants"
	"ormawa.id/internal/model"
)

// RosterCache keeps the public roster in redis between writes. A nil client
// disables it entirely; cache failures fall through to the database and are
// never surfaced to the caller.
type RosterCache struct {
	rdb *redis.Client
}

func NewRosterCache(rdb *redis.Client) *RosterCache {
	return &RosterCache{rdb: rdb}
}

func (c *RosterCache) Get(ctx context.Context) ([]model.PublicUser, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, constants.CacheKeyRoster).Bytes()
	if err != nil {
		return nil, false
	}
	var users []model.PublicUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, false
	}
	return users, true
}

func (c *RosterCache) Set(ctx context.Context, users []model.PublicUser) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, constants.CacheKeyRoster, raw, constants.CacheRosterTTL).Err(); err != nil {
		log.Printf("RosterCache: set failed: %v", err)
	}
}

func (c *RosterCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, constants.CacheKeyRoster).Err(); err != nil {
		log.Printf("RosterCache: invalidate failed: %v", err)
	}
}
