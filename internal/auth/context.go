// internal/auth/context.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const principalKey = contextKey("principal")

var ErrNoPrincipal = errors.New("user not found in context")

// Principal - аутентифицированный пользователь текущего запроса.
type Principal struct {
	ID       string
	Username string
}

// Сохраняет пользователя в контексте
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Достает пользователя из контекста
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.Username == "" {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}

// AuthMiddleware проверяет JWT из заголовка Authorization и кладет пользователя в context.
// Запросы без токена или с невалидным токеном пропускаются дальше без пользователя:
// решение об отказе принимает резолвер.
func AuthMiddleware(tokens *TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractTokenFromHeader(r.Header.Get("Authorization"))
		if tokenStr == "" {
			next.ServeHTTP(w, r) // без токена пропускаем дальше
			return
		}

		if tokens == nil || !tokens.Configured() {
			http.Error(w, "JWT secret not set", http.StatusInternalServerError)
			return
		}

		principal, err := tokens.Verify(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r) // невалидный токен: пропускаем без пользователя
			return
		}

		r = r.WithContext(WithPrincipal(r.Context(), principal))
		next.ServeHTTP(w, r)
	})
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
