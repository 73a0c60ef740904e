package authz

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// decisionKey builds the Redis key for a cached grant-layer decision.
func (e *Engine) decisionKey(userID string, perm Permission, unidade Unidade) string {
	return fmt.Sprintf("%sdecision:%s:%s:%s", e.cachePrefix, userID, unidade, perm)
}

// cachedDecision returns a cached decision and whether one was present.
func (e *Engine) cachedDecision(ctx context.Context, userID string, perm Permission, unidade Unidade) (bool, bool) {
	if e.redis == nil {
		return false, false
	}
	val, err := e.redis.Get(ctx, e.decisionKey(userID, perm, unidade)).Result()
	if err == redis.Nil {
		return false, false
	}
	if err != nil {
		e.log.Warnw("decision cache read failed", "user", userID, "permission", perm, "error", err)
		return false, false
	}
	return val == "true", true
}

// cacheDecision stores a decision with the configured TTL. Cache write
// failures are logged and ignored.
func (e *Engine) cacheDecision(ctx context.Context, userID string, perm Permission, unidade Unidade, allowed bool) {
	if e.redis == nil {
		return
	}
	val := "false"
	if allowed {
		val = "true"
	}
	if err := e.redis.Set(ctx, e.decisionKey(userID, perm, unidade), val, e.cacheTTL).Err(); err != nil {
		e.log.Warnw("decision cache write failed", "user", userID, "permission", perm, "error", err)
	}
}

// invalidateUserCache drops every cached decision for a user, or for all
// users when userID is empty.
func (e *Engine) invalidateUserCache(ctx context.Context, userID string) {
	if e.redis == nil {
		return
	}
	pattern := e.cachePrefix + "decision:*"
	if userID != "" {
		pattern = fmt.Sprintf("%sdecision:%s:*", e.cachePrefix, userID)
	}
	keys, err := e.redis.Keys(ctx, pattern).Result()
	if err != nil {
		e.log.Warnw("decision cache invalidation failed", "user", userID, "error", err)
		return
	}
	if len(keys) > 0 {
		if err := e.redis.Del(ctx, keys...).Err(); err != nil {
			e.log.Warnw("decision cache invalidation failed", "user", userID, "error", err)
		}
	}
}
