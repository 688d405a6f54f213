package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/farmassist/auth-service/internal/domain"
	"github.com/farmassist/auth-service/internal/infrastructure/redis"
	"github.com/farmassist/auth-service/internal/logger"
)

type RateLimiter interface {
	AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

// FixedWindowConfig defines the configuration for a fixed-window rate limit.
type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration
}

func (c FixedWindowConfig) normalized() FixedWindowConfig {
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.RouteKey == "" {
		c.RouteKey = "unknown"
	}
	return c
}

// RateLimitFixedWindow limits requests per caller identity using the shared Redis
// limiter. Limiter failures fail open.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg = cfg.normalized()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			identity := userOrIP(r)
			bucket := windowBucket(time.Now(), cfg.Window)
			key := fmt.Sprintf("rl:%s:%s:%d", cfg.RouteKey, identity, bucket)

			dec, err := limiter.AllowFixedWindow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().
					Err(err).
					Str("route", cfg.RouteKey).
					Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if dec.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			}

			if !dec.Allowed {
				RateLimitedTotal.WithLabelValues(cfg.RouteKey).Inc()
				if dec.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(dec.RetryAfter)))
				}
				writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitInMemory is the single-instance fallback used when no Redis is configured.
func RateLimitInMemory(cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg = cfg.normalized()
	if cfg.Limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		cfg.Limit,
		cfg.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return cfg.RouteKey + ":" + userOrIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			RateLimitedTotal.WithLabelValues(cfg.RouteKey).Inc()
			writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
		}),
	)
}

func retryAfterSeconds(d time.Duration) int {
	sec := int((d + time.Second - 1) / time.Second)
	if sec < 1 {
		sec = 1
	}
	return sec
}

func windowBucket(now time.Time, window time.Duration) int64 {
	sec := int64(window.Seconds())
	if sec <= 0 {
		sec = 60
	}
	return now.Unix() / sec
}

// userOrIP prefers the authenticated user id; otherwise falls back to client IP.
func userOrIP(r *http.Request) string {
	if uid, ok := UserIDFromContext(r.Context()); ok && strings.TrimSpace(uid) != "" {
		return "u:" + uid
	}
	return "ip:" + clientIP(r)
}

// clientIP reads RemoteAddr. Forwarding headers only reach it when the router
// was built with TrustProxyHeaders.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return addr
}
