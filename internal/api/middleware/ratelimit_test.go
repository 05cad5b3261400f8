package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

func newLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, "bookings", limit, time.Minute, logger.NewNop()), mr
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func requestAs(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	return req.WithContext(WithIdentity(req.Context(), userID, "customer", false))
}

func TestRateLimiter_LimitsPerUser(t *testing.T) {
	limiter, mr := newLimiter(t, 2)
	handler := limiter.Limit(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs("user-a"))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-a"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// другой пользователь не затронут
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-b"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.True(t, mr.Exists("ratelimit:bookings:user:user-a"))
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:bookings:user:user-a"))
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newLimiter(t, 1)
	handler := limiter.Limit(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-a"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-a"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	mr.FastForward(time.Minute + time.Second)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-a"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	limiter, mr := newLimiter(t, 1)
	handler := limiter.Limit(okHandler())
	mr.Close()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user-a"))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRateLimiter_AnonymousByIP(t *testing.T) {
	limiter, mr := newLimiter(t, 5)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"

	limiter.Limit(okHandler()).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, mr.Exists("ratelimit:bookings:ip:10.0.0.7"))
}
