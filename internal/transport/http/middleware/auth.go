package middleware

import (
	"context"
	"net/http"
	"strings"

	"payslips/internal/auth"
)

type ctxKey string

const ctxKeyOperator ctxKey = "operator"

// Auth attaches the operator from a valid bearer token. Requests without one
// pass through unauthenticated; RequireRole rejects them.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyOperator, auth.Operator{
				Name: claims.Operator,
				Role: claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetOperator(ctx context.Context) (auth.Operator, bool) {
	op, ok := ctx.Value(ctxKeyOperator).(auth.Operator)
	return op, ok
}
