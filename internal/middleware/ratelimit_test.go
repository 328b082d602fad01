package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(max int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(max, window)
	rl.now = clock.Now
	return rl, clock
}

// =============================================================================
// Rate Limiter Tests
// =============================================================================

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, wait := rl.Allow("1.2.3.4")
	if ok {
		t.Fatal("4th request should be blocked")
	}
	// one token refills every 20s
	if wait <= 0 || wait > 21*time.Second {
		t.Errorf("unexpected wait %v", wait)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("first request for a should be allowed")
	}
	if ok, _ := rl.Allow("b"); !ok {
		t.Fatal("first request for b should be allowed")
	}
	if ok, _ := rl.Allow("a"); ok {
		t.Fatal("second request for a should be blocked")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, clock := newTestLimiter(2, time.Minute)

	rl.Allow("a")
	rl.Allow("a")
	if ok, _ := rl.Allow("a"); ok {
		t.Fatal("should be blocked")
	}

	clock.Advance(31 * time.Second)
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("one token should have refilled")
	}
}

func TestRateLimiter_BlockedRequestsDoNotConsumeTokens(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)

	rl.Allow("a")
	for i := 0; i < 10; i++ {
		rl.Allow("a")
	}

	clock.Advance(61 * time.Second)
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("blocked requests should not push the refill further out")
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl, clock := newTestLimiter(5, time.Minute)

	rl.Allow("a")
	rl.Allow("b")
	clock.Advance(30 * time.Second)
	rl.Allow("b")
	clock.Advance(45 * time.Second)

	if removed := rl.Sweep(); removed != 1 {
		t.Errorf("expected 1 removed client, got %d", removed)
	}
	if rl.Len() != 1 {
		t.Errorf("expected 1 remaining client, got %d", rl.Len())
	}
}

// =============================================================================
// Rate Limit Middleware Tests
// =============================================================================

func TestRateLimitMiddleware_HTML(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	mw := NewRateLimitMiddleware(rl, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	handler := mw.Limit(okHandler())

	req := httptest.NewRequest("GET", "/items", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}

	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil || retryAfter < 1 || retryAfter > 60 {
		t.Errorf("unexpected Retry-After %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimitMiddleware_JSON(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	mw := NewRateLimitMiddleware(rl, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	handler := mw.Limit(okHandler())

	req := httptest.NewRequest("GET", "/api/items", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")

	handler.ServeHTTP(httptest.NewRecorder(), req)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "rate_limit" {
		t.Errorf("expected code rate_limit, got %q", body.Error.Code)
	}
}

// errorBody mirrors the error envelope written by the handlers.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
