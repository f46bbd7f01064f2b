package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/second-brain/core/internal/pkg/response"
)

const (
	IdempotencyHeader  = "Idempotency-Key"
	idempotencePrefix  = "secondbrain:idempotence:"
	idempotenceTTL     = 60 * time.Second
	idempotencePending = "0"
	idempotenceDone    = "1"
)

// Idempotence rejects a repeated write with 409 for 60 seconds after it
// succeeded, and while the first copy is still running. The key is the
// Idempotency-Key header, or a hash of method, URL, body and client IP.
// Failed requests release their key so the client can retry.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key, err := idempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}
		redisKey := idempotencePrefix + key
		ctx := c.Request.Context()

		acquired, err := rdb.SetNX(ctx, redisKey, idempotencePending, idempotenceTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !acquired {
			msg := "Duplicate request, try again in a minute"
			if val, _ := rdb.Get(ctx, redisKey).Result(); val == idempotencePending {
				msg = "The same request is still being processed"
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rdb.Set(ctx, redisKey, idempotenceDone, redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
	}
}

func idempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(IdempotencyHeader); hdr != "" {
		return hdr, nil
	}
	if c.Request.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) == 0 {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + c.ClientIP()
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
