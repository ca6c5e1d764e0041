package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"coursehub/internal/httpx"
)

type contextKey string

const userContextKey contextKey = "coursehub_user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

// JWTMiddleware rejects requests without a valid bearer token. The user is
// re-resolved from the store on every request so that a deleted account
// cannot keep using an unexpired token.
func JWTMiddleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")
			claims, err := svc.ParseToken(token)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			user, err := svc.users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, ErrUserNotFound) {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a handler on the resolved identity's role. A missing
// identity is 401, a role mismatch 403 with the route's refusal message.
func RequireRole(next http.HandlerFunc, role Role, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if user.Role != role {
			httpx.Error(w, http.StatusForbidden, message)
			return
		}
		next(w, r)
	}
}
