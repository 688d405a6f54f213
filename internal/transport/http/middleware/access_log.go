package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmassist/auth-service/internal/logger"
)

// AccessLog writes one line per request. Query strings are not logged.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r)

		l := logger.WithCtx(r.Context())
		var ev *zerolog.Event
		if sw.status >= http.StatusInternalServerError {
			ev = l.Warn()
		} else {
			ev = l.Info()
		}
		ev.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePattern(r)).
			Int("status", sw.status).
			Int("bytes", sw.bytes).
			Dur("latency", time.Since(start)).
			Str("remote_ip", clientIP(r)).
			Msg("http_request")
	})
}
