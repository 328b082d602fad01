package middleware

import (
	"crypto/subtle"
	"net/http"
)

// MetricsAuthMiddleware provides basic authentication for the metrics endpoint.
type MetricsAuthMiddleware struct {
	username string
	password string
	enabled  bool
}

// NewMetricsAuthMiddleware creates a new metrics auth middleware.
// If both username and password are empty, authentication is disabled.
func NewMetricsAuthMiddleware(username, password string) *MetricsAuthMiddleware {
	return &MetricsAuthMiddleware{
		username: username,
		password: password,
		enabled:  username != "" || password != "",
	}
}

// Enabled reports whether credentials are required.
func (m *MetricsAuthMiddleware) Enabled() bool {
	return m.enabled
}

// Handler returns middleware that requires basic authentication.
func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled || m.authorized(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

func (m *MetricsAuthMiddleware) authorized(r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	// Both comparisons always run so timing does not reveal which one failed.
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(m.username))
	passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(m.password))
	return userMatch&passMatch == 1
}
