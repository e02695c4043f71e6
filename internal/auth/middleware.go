package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxLogin   ctxKey = "login"
	CtxIsAdmin ctxKey = "isAdmin"
)

// MiddlewareAutenticacao exige Bearer token válido nas rotas admin.
func MiddlewareAutenticacao(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "Token ausente", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(h, "Bearer ")
			claims, err := ParseAndValidate(secret, raw)
			if err != nil {
				http.Error(w, "Token inválido", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), CtxLogin, claims.Login)
			ctx = context.WithValue(ctx, CtxIsAdmin, claims.IsAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
