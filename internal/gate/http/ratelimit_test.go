package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wherehouse/gate/internal/gate/store"
)

// fakeCounters is an in-memory store.Counters with controllable failures.
type fakeCounters struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Time
	fail   bool
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{
		counts: make(map[string]int64),
		ttls:   make(map[string]time.Time),
	}
}

func (f *fakeCounters) Increment(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("store down")
	}
	if exp, ok := f.ttls[key]; ok && time.Now().After(exp) {
		delete(f.counts, key)
		delete(f.ttls, key)
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounters) Expire(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("store down")
	}
	f.ttls[key] = time.Now().Add(ttl)
	return nil
}

func (f *fakeCounters) TTL(_ context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.ttls[key]
	if !ok {
		return 0, store.ErrNotFound
	}
	remaining := time.Until(exp)
	if remaining <= 0 {
		return 0, store.ErrNotFound
	}
	return remaining, nil
}

func (f *fakeCounters) DeleteExpired(context.Context) error { return nil }

func (f *fakeCounters) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":5123"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitLoginWindow(t *testing.T) {
	counters := newFakeCounters()
	handler := RateLimit(counters, DefaultRateLimitConfig(), "Authorization")(okHandler())

	for i := 1; i <= 5; i++ {
		rec := doRequest(handler, http.MethodPost, "/login", "198.51.100.7")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i)
	}

	rec := doRequest(handler, http.MethodPost, "/login", "198.51.100.7")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	retryAfter := rec.Header().Get("Retry-After")
	require.NotEmpty(t, retryAfter)

	var body struct {
		Message    string `json:"message"`
		RetryAfter int64  `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Message)
	require.Positive(t, body.RetryAfter)
	require.LessOrEqual(t, body.RetryAfter, int64(60))

	t.Run("another address is unaffected", func(t *testing.T) {
		rec := doRequest(handler, http.MethodPost, "/login", "198.51.100.8")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitCategories(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	counters := newFakeCounters()
	handler := RateLimit(counters, cfg, "Authorization")(okHandler())

	// Reads and writes are separate budgets for the same caller.
	for range cfg.WriteLimit {
		rec := doRequest(handler, http.MethodPost, "/boards", "203.0.113.1")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doRequest(handler, http.MethodPost, "/boards", "203.0.113.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = doRequest(handler, http.MethodGet, "/list", "203.0.113.1")
	require.Equal(t, http.StatusOK, rec.Code)

	// Only POST/PUT/DELETE are writes; anything else reads.
	rec = doRequest(handler, http.MethodPatch, "/boards/1", "203.0.113.1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(2), counters.counts["rate:read:ip:203.0.113.1"])
}

func TestRateLimitExcludedPrefixes(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	counters := newFakeCounters()
	handler := RateLimit(counters, cfg, "Authorization")(okHandler())

	for i := 0; i < int(cfg.ReadLimit)*2; i++ {
		rec := doRequest(handler, http.MethodGet, "/css/site.css", "203.0.113.2")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Empty(t, counters.counts)
}

func TestRateLimitFailsOpen(t *testing.T) {
	counters := newFakeCounters()
	counters.setFail(true)
	handler := RateLimit(counters, DefaultRateLimitConfig(), "Authorization")(okHandler())

	for range 20 {
		rec := doRequest(handler, http.MethodPost, "/login", "203.0.113.3")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitWindowArming(t *testing.T) {
	counters := newFakeCounters()
	cfg := DefaultRateLimitConfig()
	handler := RateLimit(counters, cfg, "Authorization")(okHandler())

	doRequest(handler, http.MethodGet, "/list", "203.0.113.4")

	key := fmt.Sprintf("rate:%s:ip:%s", categoryRead, "203.0.113.4")
	ttl, err := counters.TTL(context.Background(), key)
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, cfg.Window)
}
