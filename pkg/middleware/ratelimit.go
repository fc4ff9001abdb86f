package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"theater-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit is a fixed-window limiter keyed by the authenticated user, or
// by client IP for anonymous requests. Without Redis it lets everything
// through; Redis errors fail open.
func RateLimit(rdb *redis.Client, config utils.RateLimitConfig, scope string, logger *zap.Logger) func(http.Handler) http.Handler {
	if rdb == nil || !config.Enabled || config.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	window := config.Window
	if window < time.Second {
		window = time.Second
	}
	windowSecs := int64(window / time.Second)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now().Unix()
			bucket := now / windowSecs
			key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, rateLimitSubject(r), bucket)

			pipe := rdb.TxPipeline()
			count := pipe.Incr(r.Context(), key)
			pipe.Expire(r.Context(), key, window)
			if _, err := pipe.Exec(r.Context()); err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count.Val() > int64(config.Requests) {
				retryAfter := (bucket+1)*windowSecs - now
				w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				logger.Warn("Rate limit exceeded",
					zap.String("scope", scope),
					zap.String("key", key),
				)
				utils.ResponseTooManyRequests(w, "Too many requests, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitSubject(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return "ip:" + ip
}
