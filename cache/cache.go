package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
)

const (
	prefixProfile = "profile:"
	ttlProfile    = 5 * time.Minute
)

// ProfileCache is a read-through redis cache for directory profiles.
// Every method tolerates a missing or unreachable redis: a cache problem
// degrades to a database read, never to a failed request.
type ProfileCache struct {
	rdb *redis.Client
}

// NewProfileCache connects to redis. An empty addr disables caching and
// returns a nil cache, which all methods accept.
func NewProfileCache(addr string) *ProfileCache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &ProfileCache{rdb: rdb}
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*models.UserProfile, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, prefixProfile+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Get().Debug().Err(err).Str("user_id", userID).Msg("profile cache read failed")
		}
		return nil, false
	}
	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

func (c *ProfileCache) Set(ctx context.Context, profile models.UserProfile) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, prefixProfile+profile.ID, data, ttlProfile).Err(); err != nil {
		logger.Get().Debug().Err(err).Str("user_id", profile.ID).Msg("profile cache write failed")
	}
}
