package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// unmatchedRoute labels requests no ServeMux pattern claimed, so scanners
// probing random paths cannot create new series.
const unmatchedRoute = "unmatched"

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

func (rec *statusRecorder) code() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

// routeLabel is the matched ServeMux pattern. ServeMux sets it on the request
// it routes, so this must run after next.ServeHTTP on that same request.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	return r.Pattern
}

// Middleware records count, latency and response size per route. It must
// wrap the mux directly: middleware that replaces r with r.WithContext hides
// the matched pattern from it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Scrapes would otherwise dominate the request counts
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		route := routeLabel(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.code())).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		HTTPResponseBytes.WithLabelValues(r.Method, route).Observe(float64(rec.bytes))
	})
}
