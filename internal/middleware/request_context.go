package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/logging"
)

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	userEmailKey contextKey = "userEmail"
	loggerKey    contextKey = "logger"
)

// RequestContext tags each request with an id, the caller's email when
// known, and a context logger carrying both.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := uuid.New().String()
		ctx = context.WithValue(ctx, requestIDKey, requestID)

		email := ""
		if user, ok := auth.GetAuthenticatedUser(ctx); ok {
			email = user.Email
		}
		if email != "" {
			ctx = context.WithValue(ctx, userEmailKey, email)
		}

		logger := logging.With(
			"request_id", requestID,
			"user", email,
			"client_ip", getClientIP(r),
		)
		ctx = context.WithValue(ctx, loggerKey, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetLoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// client IP from proxy headers, falling back to the socket address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
