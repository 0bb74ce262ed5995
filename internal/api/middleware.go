package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/store-re/server/internal/auth"
	"github.com/store-re/server/internal/model"
	"github.com/store-re/server/internal/store"
)

// SessionHeader carries the session token on every authenticated request.
const SessionHeader = "Authorization-Session"

type contextKey string

const principalKey contextKey = "principal"

// SessionAuth validates the session token and resolves it to a live session
// row. A missing or malformed token is 401; a well-formed token whose
// session no longer exists (logged out, purged) is 403.
func SessionAuth(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(SessionHeader)
			if tokenStr == "" {
				jsonError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			claims, err := auth.ValidateToken(secret, tokenStr)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			session, err := store.GetSession(r.Context(), db, claims.ID)
			if err != nil {
				slog.Error("looking up session", "error", err)
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if session == nil {
				jsonError(w, http.StatusForbidden, "unknown session")
				return
			}

			principal := &model.Principal{
				SessionID:  session.SessionID,
				UserID:     session.UserID,
				LastSyncAt: session.LastSyncAt,
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) *model.Principal {
	principal, _ := ctx.Value(principalKey).(*model.Principal)
	return principal
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
