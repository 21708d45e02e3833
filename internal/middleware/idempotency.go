package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	idempotencyCacheKey = "idempotency_cache_key"
	idempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

type idempotentResult struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the stored result of a POST carrying the same
// Idempotency-Key, and rejects a duplicate that arrives while the first one is
// still running. Handlers finish the cycle with StoreIdempotentResponse and
// ReleaseIdempotencyLock.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString(ContextValidatedUserID)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached idempotentResult
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// redis down: run the request without protection
			c.Next()
			return
		}
		if !isNew {
			response.Abort(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed")
			return
		}

		c.Set(idempotencyCacheKey, cacheKey)
		c.Set(idempotencyLockKey, lockKey)

		c.Next()
	}
}

// StoreIdempotentResponse keeps a successful result for replay.
func StoreIdempotentResponse(c *gin.Context, rdb *redis.Client, status int, data any) {
	if rdb == nil {
		return
	}
	cacheKey := c.GetString(idempotencyCacheKey)
	if cacheKey == "" {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(idempotentResult{Status: status, Data: raw})
	if err != nil {
		return
	}
	_ = rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyResultTTL).Err()
}

// ReleaseIdempotencyLock drops the in-flight lock. Safe to defer.
func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lockKey := c.GetString(idempotencyLockKey); lockKey != "" {
		_ = rdb.Del(c.Request.Context(), lockKey).Err()
	}
}
