package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/domain"
)

type contextKey string

const (
	tokenContextKey contextKey = "bearer_token"
	appIDContextKey contextKey = "app_id"
)

// TokenFromContext returns the bearer token extracted by BearerToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// AppIDFromContext returns the application id resolved by Authenticate.
func AppIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	appID, ok := ctx.Value(appIDContextKey).(uuid.UUID)
	return appID, ok
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// BearerToken extracts the bearer token into the request context without
// resolving it. Ingestion routes use this: resolution is the first step of
// the pipeline itself.
func BearerToken(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn("missing bearer token", "remote_addr", r.RemoteAddr)
				writeAuthError(w)
				return
			}
			ctx := context.WithValue(r.Context(), tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate resolves the bearer token to an application id and stores it
// in the request context. Query routes use this so every read is scoped to
// the resolved tenant before any handler code runs.
func Authenticate(tokens domain.TokenRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn("missing bearer token", "remote_addr", r.RemoteAddr)
				writeAuthError(w)
				return
			}

			appID, err := tokens.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					logger.Warn("invalid bearer token", "remote_addr", r.RemoteAddr)
					writeAuthError(w)
					return
				}
				logger.Error("token resolution failed", "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":"storage_unavailable","detail":"token resolution failed, retry with backoff"}`))
				return
			}

			ctx := context.WithValue(r.Context(), appIDContextKey, appID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid_token","detail":"a valid bearer token is required"}`))
}
