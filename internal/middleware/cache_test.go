package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/food-squad/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Routes:      []string{"/api/menu-items"},
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

func newCacheEcho(t *testing.T, cfg config.CacheConfig) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb))
	return e
}

func get(e *echo.Echo, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCacheKeysOnConcretePath(t *testing.T) {
	e := newCacheEcho(t, cacheTestConfig())
	e.GET("/api/menu-items/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "item "+c.Param("id"))
	})

	rec := get(e, "/api/menu-items/1", nil)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Equal(t, "item 1", rec.Body.String())

	// A sibling path must not be served from item 1's entry.
	rec = get(e, "/api/menu-items/2", nil)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Equal(t, "item 2", rec.Body.String())

	rec = get(e, "/api/menu-items/1", nil)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.Equal(t, "item 1", rec.Body.String())
}

func TestCacheSkipsRequestsWithCredentials(t *testing.T) {
	e := newCacheEcho(t, cacheTestConfig())
	calls := 0
	e.GET("/api/menu-items", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "menu")
	})

	withToken := func(r *http.Request) { r.Header.Set("Authorization", "Bearer sometoken") }

	// A credentialed render must not seed the shared cache.
	rec := get(e, "/api/menu-items", withToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("X-Cache"))
	require.Equal(t, 1, calls)

	rec = get(e, "/api/menu-items", nil)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Equal(t, 2, calls)

	// Anonymous requests share the anonymous entry.
	rec = get(e, "/api/menu-items", nil)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.Equal(t, 2, calls)

	// A credentialed caller never reads the cache either.
	rec = get(e, "/api/menu-items", withToken)
	require.Empty(t, rec.Header().Get("X-Cache"))
	require.Equal(t, 3, calls)
}

func TestCacheScopedToConfiguredRoutes(t *testing.T) {
	e := newCacheEcho(t, cacheTestConfig())
	calls := 0
	e.GET("/api/orders", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "orders")
	})

	for i := 0; i < 2; i++ {
		rec := get(e, "/api/orders", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("X-Cache"), "gated routes are never cached")
	}
	require.Equal(t, 2, calls)
}
