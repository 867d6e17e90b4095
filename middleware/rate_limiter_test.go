package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()

	r := gin.New()
	r.Use(RateLimiter(rdb, 2, time.Minute))
	r.GET("/ping", ok)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", nil).Code)
	w := serve(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/ping", nil).Code)

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/ping", nil).Code)
}

func TestRateLimiterKeysByCaller(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := gin.New()
	r.Use(asCaller(testUser), RateLimiter(rdb, 1, time.Minute))
	r.GET("/ping", ok)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", nil).Code)
	assert.True(t, mr.Exists("ratelimit:user:u-1"))
}
