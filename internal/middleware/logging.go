package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the request ID stored by RequestLoggingMiddleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestLoggingMiddleware logs HTTP requests with timing and status information.
type RequestLoggingMiddleware struct {
	logger *slog.Logger
}

// NewRequestLoggingMiddleware creates a new request logging middleware.
func NewRequestLoggingMiddleware(logger *slog.Logger) *RequestLoggingMiddleware {
	return &RequestLoggingMiddleware{
		logger: logger,
	}
}

// Handler returns middleware that tags each request with an ID and logs it.
// An incoming X-Request-ID is reused when it is a valid UUID.
func (m *RequestLoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

		if shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		attrs := []any{
			"request_id", id,
			"method", r.Method,
			"path", sanitizePath(r.URL.Path, r.URL.RawQuery),
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", getClientIP(r),
			"user_agent", r.UserAgent(),
		}

		if wrapped.statusCode >= 500 {
			m.logger.Warn("request", attrs...)
		} else {
			m.logger.Info("request", attrs...)
		}
	})
}

// shouldSkip returns true for paths that are too noisy to log.
func shouldSkip(path string) bool {
	return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/static/")
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// sensitiveParams are redacted from logged query strings.
var sensitiveParams = map[string]bool{
	"token":         true,
	"code":          true,
	"key":           true,
	"secret":        true,
	"password":      true,
	"api_key":       true,
	"apikey":        true,
	"access_token":  true,
	"refresh_token": true,
}

// sanitizePath returns path plus its query with sensitive values redacted.
// Paging parameters and other values are kept so slow pages can be traced.
func sanitizePath(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path
	}
	for k := range values {
		if sensitiveParams[strings.ToLower(k)] {
			values[k] = []string{"REDACTED"}
		}
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
