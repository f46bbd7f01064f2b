package middleware

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	APICachePrefix          = "secondbrain:api-cache:"
	CacheStatusHeader       = "X-Cache"
	defaultHTTPCacheTTL     = 15 * time.Second
	defaultHTTPCacheMaxBody = 1 << 20 // 1 MiB
)

type HTTPCacheOptions struct {
	TTL          time.Duration
	MaxBodyBytes int
}

type cachedHTTPResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	BodyBase64  string `json:"body_base64"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.overflow || len(data) == 0 {
		return
	}
	if len(w.body)+len(data) > w.maxBodyBytes {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache serves repeated GETs from Redis for opts.TTL. A nil client, or a
// request carrying a "ts" query parameter, bypasses the cache. Only 200
// responses that fit in MaxBodyBytes are stored.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions, log *zap.Logger) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheMaxBody
	}
	maxAge := "max-age=" + strconv.Itoa(int(opts.TTL/time.Second))

	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet || strings.TrimSpace(c.Query("ts")) != "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := APICachePrefix + c.Request.URL.RequestURI()

		if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
			if payload, body, ok := decodeCachedResponse(raw); ok {
				c.Header(CacheStatusHeader, "hit")
				c.Header("Cache-Control", maxAge)
				c.Data(payload.Status, payload.ContentType, body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) && log != nil {
			log.Warn("http cache read failed", zap.Error(err))
		}

		writer := &cacheBodyWriter{ResponseWriter: c.Writer, maxBodyBytes: opts.MaxBodyBytes}
		c.Writer = writer
		c.Header(CacheStatusHeader, "miss")
		c.Next()

		if writer.Status() != http.StatusOK || writer.overflow || len(writer.body) == 0 {
			return
		}
		raw, err := json.Marshal(cachedHTTPResponse{
			Status:      http.StatusOK,
			ContentType: writer.Header().Get("Content-Type"),
			BodyBase64:  base64.StdEncoding.EncodeToString(writer.body),
		})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, key, raw, opts.TTL).Err(); err != nil && log != nil {
			log.Warn("http cache write failed", zap.Error(err))
		}
	}
}

func decodeCachedResponse(raw []byte) (cachedHTTPResponse, []byte, bool) {
	var payload cachedHTTPResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, nil, false
	}
	body, err := base64.StdEncoding.DecodeString(payload.BodyBase64)
	if err != nil {
		return payload, nil, false
	}
	if payload.Status <= 0 {
		payload.Status = http.StatusOK
	}
	if payload.ContentType == "" {
		payload.ContentType = "application/json; charset=utf-8"
	}
	return payload, body, true
}
