package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHTTPCacheServesRepeatedGets(t *testing.T) {
	mr, rdb := newMiniRedis(t)

	calls := 0
	r := gin.New()
	r.Use(HTTPCache(rdb, HTTPCacheOptions{TTL: 10 * time.Second}, zap.NewNop()))
	r.GET("/q", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"n": calls})
	})
	r.GET("/missing", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{})
	})

	w := get(r, "/q?q=go")
	assert.Equal(t, "miss", w.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())

	w = get(r, "/q?q=go")
	assert.Equal(t, "hit", w.Header().Get(CacheStatusHeader))
	assert.Equal(t, "max-age=10", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))

	w = get(r, "/q?q=go&ts=1")
	assert.JSONEq(t, `{"n":2}`, w.Body.String())

	w = get(r, "/q?q=rust")
	assert.JSONEq(t, `{"n":3}`, w.Body.String())

	get(r, "/missing")
	get(r, "/missing")
	assert.Equal(t, 5, calls)

	mr.FastForward(11 * time.Second)
	w = get(r, "/q?q=go")
	assert.JSONEq(t, `{"n":6}`, w.Body.String())
}

func TestHTTPCacheSkipsOversizedAndNilClient(t *testing.T) {
	_, rdb := newMiniRedis(t)

	calls := 0
	handler := func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, strings.Repeat("x", 64))
	}

	r := gin.New()
	r.GET("/big", HTTPCache(rdb, HTTPCacheOptions{MaxBodyBytes: 16}, nil), handler)
	r.GET("/plain", HTTPCache(nil, HTTPCacheOptions{}, nil), handler)

	get(r, "/big")
	w := get(r, "/big")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 64, w.Body.Len())

	get(r, "/plain")
	get(r, "/plain")
	assert.Equal(t, 4, calls)
}
