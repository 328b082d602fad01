package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   string
	}{
		{"no checks", nil, http.StatusOK, "OK"},
		{"all healthy", map[string]Check{"postgres": ok, "s3": ok}, http.StatusOK, "OK"},
		{"one down", map[string]Check{"postgres": down, "s3": ok}, http.StatusServiceUnavailable, "UNAVAILABLE: postgres"},
		{"sorted names", map[string]Check{"s3": down, "mongo": down}, http.StatusServiceUnavailable, "UNAVAILABLE: mongo, s3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.checks, logger).ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
