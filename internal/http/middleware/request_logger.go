package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"jobpack/internal/logger"
)

// RequestLogger logs one line per request, levelled by response status.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"status", status,
				"method", r.Method,
				"path", r.URL.Path,
				"latency_ms", time.Since(start).Milliseconds(),
				"bytes", ww.BytesWritten(),
				"client_ip", r.RemoteAddr,
			}
			if q := r.URL.RawQuery; q != "" {
				attrs = append(attrs, "query", q)
			}

			log := logger.FromContext(r.Context(), base)
			switch {
			case status >= 500:
				log.Error("request completed", attrs...)
			case status >= 400:
				log.Warn("request completed", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}
