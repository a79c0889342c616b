package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/floorplan-seat-planner/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "planner-cache",
		MaxBodyBytes: 1 << 10,
	}
}

// plan is a stand-in for the engine state the cached handler reads.
type plan struct {
	mu    sync.Mutex
	state string
}

func (p *plan) get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *plan) set(v string) {
	p.mu.Lock()
	p.state = v
	p.mu.Unlock()
}

func serveGET(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCacheHitAfterMiss(t *testing.T) {
	_, rdb := newRedis(t)
	calls := 0
	e := echo.New()
	e.GET("/v1/seats", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"seats": 10})
	}, NewRedisCache(cacheConfig(), rdb))

	first := serveGET(e, "/v1/seats")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serveGET(e, "/v1/seats")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)
}

func TestCacheMissAfterInvalidate(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := cacheConfig()
	p := &plan{state: "before"}
	e := echo.New()
	e.GET("/v1/seats", func(c echo.Context) error {
		return c.String(http.StatusOK, p.get())
	}, NewRedisCache(cfg, rdb))

	serveGET(e, "/v1/seats")
	require.Equal(t, "HIT", serveGET(e, "/v1/seats").Header().Get("X-Cache"))

	p.set("after")
	Invalidate(context.Background(), cfg, rdb, zerolog.Nop())

	rec := serveGET(e, "/v1/seats")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "after", rec.Body.String())

	gen, err := rdb.Get(context.Background(), generationKey(cfg.Prefix)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen, "invalidation leaves the generation counter in place")
}

func TestCacheReadInFlightDuringInvalidate(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := cacheConfig()
	p := &plan{state: "before"}
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	e := echo.New()
	e.GET("/v1/seats", func(c echo.Context) error {
		body := p.get()
		parked := false
		once.Do(func() { parked = true })
		if parked {
			close(entered)
			<-release
		}
		return c.String(http.StatusOK, body)
	}, NewRedisCache(cfg, rdb))

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- serveGET(e, "/v1/seats") }()
	<-entered

	p.set("after")
	Invalidate(context.Background(), cfg, rdb, zerolog.Nop())
	close(release)
	slow := <-done
	assert.Equal(t, "before", slow.Body.String())

	rec := serveGET(e, "/v1/seats")
	assert.Equal(t, "after", rec.Body.String(), "stale read must not repopulate the cache")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", serveGET(e, "/v1/seats").Header().Get("X-Cache"))
}

func TestCacheSkipsOversizedBodies(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := cacheConfig()
	cfg.MaxBodyBytes = 8
	big := strings.Repeat("x", 32)
	e := echo.New()
	e.GET("/v1/render", func(c echo.Context) error {
		return c.String(http.StatusOK, big)
	}, NewRedisCache(cfg, rdb))

	for i := 0; i < 2; i++ {
		rec := serveGET(e, "/v1/render")
		assert.Equal(t, big, rec.Body.String())
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
}

func TestCacheSkipsErrors(t *testing.T) {
	_, rdb := newRedis(t)
	e := echo.New()
	e.GET("/v1/seats/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	}, NewRedisCache(cacheConfig(), rdb))

	serveGET(e, "/v1/seats/99")
	assert.Equal(t, "MISS", serveGET(e, "/v1/seats/99").Header().Get("X-Cache"))
}

func TestCacheBypassedWhenRedisFails(t *testing.T) {
	mr, rdb := newRedis(t)
	e := echo.New()
	e.GET("/v1/seats", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, NewRedisCache(cacheConfig(), rdb))

	mr.Close()
	rec := serveGET(e, "/v1/seats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestTokenBucketRejectsWhenExhausted(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	e := echo.New()
	e.GET("/v1/seats", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewTokenBucket(cfg, rdb, zerolog.Nop()))

	first := serveGET(e, "/v1/seats")
	require.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, http.StatusNoContent, serveGET(e, "/v1/seats").Code)

	blocked := serveGET(e, "/v1/seats")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "too_many_requests")
}
