package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"jobpack/internal/logger"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

func UserIDFromContext(ctx context.Context) (uint64, bool) {
	v := ctx.Value(userIDKey)
	id, ok := v.(uint64)
	return id, ok
}

// WithUserID is used by Identify and by tests that bypass token parsing.
func WithUserID(ctx context.Context, id uint64) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return logger.WithUserID(ctx, id)
}

// Identify attaches the caller's id when a valid bearer token is present and
// otherwise passes the request through unchanged. Handlers decide how to
// answer anonymous callers.
func Identify(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid, ok := bearerUser(jwtSvc, r); ok {
				r = r.WithContext(WithUserID(r.Context(), uid))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAuth(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := bearerUser(jwtSvc, r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Not authenticated",
					"code":  "NOT_AUTHENTICATED",
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
		})
	}
}

func bearerUser(jwtSvc *JWT, r *http.Request) (uint64, bool) {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return 0, false
	}
	uid, err := jwtSvc.Verify(strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return 0, false
	}
	return uid, true
}
