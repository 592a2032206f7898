package http

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/slogx"
)

const (
	categoryLogin = "login"
	categoryWrite = "write"
	categoryRead  = "read"
)

// RateLimitConfig holds the fixed-window budgets. The login budget is
// deliberately the tightest so credential guessing exhausts its window
// first.
type RateLimitConfig struct {
	LoginLimit int64
	WriteLimit int64
	ReadLimit  int64
	Window     time.Duration

	LoginPath        string
	ExcludedPrefixes []string
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		LoginLimit: 5,
		WriteLimit: 20,
		ReadLimit:  60,
		Window:     time.Minute,
		LoginPath:  "/login",
		ExcludedPrefixes: []string{
			"/js/", "/css/", "/images/", "/favicon.ico",
		},
	}
}

func (c RateLimitConfig) excluded(path string) bool {
	for _, p := range c.ExcludedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (c RateLimitConfig) categorize(r *http.Request) (string, int64) {
	if r.Method == http.MethodPost && r.URL.Path == c.LoginPath {
		return categoryLogin, c.LoginLimit
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return categoryWrite, c.WriteLimit
	}
	return categoryRead, c.ReadLimit
}

// RateLimit enforces a fixed window counter per (category, caller) pair.
// The shared store is the only coordination point, so every replica of
// the service counts against the same windows. A store failure admits
// the request: throttling degrades before availability does.
func RateLimit(counters store.Counters, cfg RateLimitConfig, cookieName string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			category, limit := cfg.categorize(r)
			identifier := ResolveIdentifier(r, cookieName)
			key := fmt.Sprintf("rate:%s:%s", category, identifier)
			logger := slogx.FromContext(r.Context())

			count, err := counters.Increment(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable, admitting request",
					"key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			// First request of a window arms the TTL. Two racing firsts
			// both arming it is fine; Expire is idempotent.
			if count == 1 {
				if err := counters.Expire(r.Context(), key, cfg.Window); err != nil {
					logger.Warn("failed to arm rate window", "key", key, "error", err)
				}
			}

			if count > limit {
				retryAfter := cfg.Window
				if ttl, err := counters.TTL(r.Context(), key); err == nil && ttl > 0 {
					retryAfter = ttl
				}
				seconds := int64(math.Ceil(retryAfter.Seconds()))

				logger.Warn("rate limit exceeded",
					"key", key, "count", count, "limit", limit, "retry_after", seconds)

				w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
				httpx.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
					"message":    "too many requests",
					"retryAfter": seconds,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
