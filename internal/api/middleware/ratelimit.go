package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// RateLimiter ограничивает число запросов на пользователя за окно (счетчик в Redis)
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
	logger Logger
}

// NewRateLimiter создает ограничитель; prefix отделяет счетчики разных маршрутов
func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration, logger Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		logger: logger,
	}
}

// Limit возвращает 429, если лимит исчерпан
// Если Redis недоступен, запрос пропускается
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s", l.prefix, identity(r))

		count, err := l.client.Incr(r.Context(), key).Result()
		if err != nil {
			l.logger.Warn("RateLimit: redis unavailable, skipping limit for %s: %v", key, err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.client.Expire(r.Context(), key, l.window).Err(); err != nil {
				l.logger.Warn("RateLimit: failed to set expiry for %s: %v", key, err)
			}
		}

		if count > l.limit {
			ttl, err := l.client.TTL(r.Context(), key).Result()
			if err != nil || ttl <= 0 {
				ttl = l.window
			}
			l.logger.Warn("RateLimit: %s exceeded %d requests", key, l.limit)
			w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// identity пользователь из контекста, иначе IP клиента
func identity(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
