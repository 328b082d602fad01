package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// =============================================================================
// Stack Tests
// =============================================================================

func TestStack_Order(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Stack(tag("outer"), tag("middle"), tag("inner"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	got := strings.Join(order, ",")
	if got != "outer,middle,inner,handler" {
		t.Errorf("unexpected order: %s", got)
	}
}

func TestStack_Empty(t *testing.T) {
	rec := httptest.NewRecorder()
	Stack()(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

// =============================================================================
// Client IP Tests
// =============================================================================

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.168.1.1:12345", nil, "192.168.1.1"},
		{"remote addr without port", "192.168.1.1", nil, "192.168.1.1"},
		{"forwarded for", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "203.0.113.195"},
		{"real ip", "10.0.0.1:80", map[string]string{"X-Real-IP": " 198.51.100.7 "}, "198.51.100.7"},
		{"forwarded for wins", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.1", "X-Real-IP": "198.51.100.7"}, "203.0.113.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
