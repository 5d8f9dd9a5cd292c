package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fkhayef/movienight/internal/metrics"
)

// silentPaths are scraped or polled often and only logged on errors.
var silentPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RequestLogger logs every request with its status, latency and caller, and
// records the latency histogram by chi route pattern.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		var callerID int64
		r = r.WithContext(context.WithValue(r.Context(), callerSlotKey, &callerID))

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(duration.Seconds())

		if silentPaths[r.URL.Path] && status < 400 {
			return
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
		}
		if callerID != 0 {
			attrs = append(attrs, "user_id", callerID)
		}

		switch {
		case status >= 500:
			slog.Error("Request completed", attrs...)
		case status >= 400:
			slog.Warn("Request completed", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	})
}
