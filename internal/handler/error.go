package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/pagedlist/internal/domain"
	"github.com/DukeRupert/pagedlist/internal/middleware"
)

// ErrorResponse writes an error response to the client.
// It maps domain error codes to HTTP status codes and formats appropriately
// based on the request (JSON for API requests, plain text otherwise).
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	op := domain.ErrorOp(err)

	status := ErrorCodeToHTTPStatus(code)

	logError(logger, r, err, code, op, status)

	if acceptsJSON(r) {
		writeJSONError(w, status, code, message)
		return
	}

	http.Error(w, message, status)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable // 503
	case domain.ETIMEOUT:
		return http.StatusGatewayTimeout // 504
	default:
		return http.StatusInternalServerError // 500
	}
}

// NotFoundResponse is a convenience wrapper for 404 errors.
func NotFoundResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	err := domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found")
	ErrorResponse(w, r, logger, err)
}

// InternalErrorResponse logs the error and returns a generic 500 response.
// The underlying error details are hidden from the user.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	wrappedErr := domain.Internal(err, "", "An unexpected error occurred")
	ErrorResponse(w, r, logger, wrappedErr)
}

// logError logs the error with appropriate level based on status code.
func logError(logger *slog.Logger, r *http.Request, err error, code, op string, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}

	if op != "" {
		attrs = append(attrs, "op", op)
	}
	if id := middleware.RequestID(r.Context()); id != "" {
		attrs = append(attrs, "request_id", id)
	}

	// 5xx are server-side issues, 4xx are expected client errors
	if status >= 500 {
		logger.Error("server error", attrs...)
	} else if status >= 400 {
		logger.Info("client error", attrs...)
	}
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}

	// htmx requests want HTML
	if r.Header.Get("HX-Request") == "true" {
		return false
	}

	return strings.HasSuffix(r.URL.Path, ".json")
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// JSONError is a typed response structure for API errors.
type JSONError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
