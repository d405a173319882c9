package auth

import (
	"context"
	"net/http"
	"strings"
)

// SessionGetter abstrai o Store para o middleware (e para fakes em teste).
type SessionGetter interface {
	Get(ctx context.Context, token string) (Session, error)
}

type ctxKey struct{}

// FromContext retorna a sessão colocada pelo middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// RequireAdmin exige um Bearer token que resolva para uma sessão com papel
// admin antes de qualquer handler de fluxo rodar.
func RequireAdmin(store SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			sess, err := store.Get(r.Context(), token)
			if err == ErrSessionNotFound {
				http.Error(w, "invalid session", http.StatusUnauthorized)
				return
			}
			if err != nil {
				http.Error(w, "session lookup failed", http.StatusInternalServerError)
				return
			}
			if sess.Role != RoleAdmin {
				http.Error(w, "admin role required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
