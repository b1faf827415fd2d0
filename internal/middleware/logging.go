package middleware

import (
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// LoggingMiddleware logs every request with its outcome, at a level
// matched to the status class.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		logger := GetLoggerFromContext(r.Context())
		logger.Info("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery)

		next.ServeHTTP(wrapped, r)

		logAttrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case wrapped.statusCode >= 500:
			logger.Error("Request completed with server error", logAttrs...)
		case wrapped.statusCode >= 400:
			logger.Warn("Request completed with client error", logAttrs...)
		default:
			logger.Info("Request completed successfully", logAttrs...)
		}
	})
}
