package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPrincipalAndPrincipalFromContext(t *testing.T) {
	t.Run("Store and retrieve principal from context", func(t *testing.T) {
		ctx := context.Background()

		principal := Principal{ID: "42", Username: "alice"}
		ctx = WithPrincipal(ctx, principal)

		retrieved, err := PrincipalFromContext(ctx)
		assert.NoError(t, err)
		assert.Equal(t, principal, retrieved)
	})

	t.Run("Error when principal not in context", func(t *testing.T) {
		_, err := PrincipalFromContext(context.Background())
		assert.ErrorIs(t, err, ErrNoPrincipal)
	})

	t.Run("Error when context value has wrong type", func(t *testing.T) {
		// Создаем контекст с неправильным типом значения
		ctx := context.WithValue(context.Background(), principalKey, "alice")

		_, err := PrincipalFromContext(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found in context")
	})

	t.Run("Error when username is empty", func(t *testing.T) {
		ctx := WithPrincipal(context.Background(), Principal{ID: "1"})

		_, err := PrincipalFromContext(ctx)
		assert.ErrorIs(t, err, ErrNoPrincipal)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	t.Run("Valid Bearer token", func(t *testing.T) {
		assert.Equal(t, "token123", extractTokenFromHeader("Bearer token123"))
	})

	t.Run("Invalid format - no Bearer prefix", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader("NotBearer token123"))
	})

	t.Run("Invalid format - no space", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader("Bearertoken123"))
	})

	t.Run("Empty header", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader(""))
	})
}

func TestAuthMiddleware(t *testing.T) {
	// Тестовый обработчик, который проверяет наличие пользователя в контексте
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := PrincipalFromContext(r.Context())
		if err == nil {
			fmt.Fprintf(w, "User: %s/%s", p.ID, p.Username)
		} else {
			fmt.Fprint(w, "No user in context")
		}
	})

	testSecret := "test_jwt_secret"
	tokens := NewTokenManager(testSecret, time.Hour)
	handler := AuthMiddleware(tokens, testHandler)

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/query", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid token", func(t *testing.T) {
		tokenString, err := tokens.Issue(Principal{ID: "123", Username: "testuser"})
		require.NoError(t, err)

		w := serve("Bearer " + tokenString)
		assert.Equal(t, "User: 123/testuser", w.Body.String())
	})

	t.Run("Invalid token signature", func(t *testing.T) {
		// Токен, подписанный другим секретом
		tokenString, err := NewTokenManager("wrong_secret", time.Hour).Issue(Principal{ID: "123", Username: "testuser"})
		require.NoError(t, err)

		w := serve("Bearer " + tokenString)
		assert.Equal(t, "No user in context", w.Body.String())
	})

	t.Run("Expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":  "123",
			"username": "testuser",
			"exp":      time.Now().Add(-time.Hour).Unix(),
		})
		tokenString, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		w := serve("Bearer " + tokenString)
		assert.Equal(t, "No user in context", w.Body.String())
	})

	t.Run("Unsigned token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id":  "123",
			"username": "testuser",
		})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		w := serve("Bearer " + tokenString)
		assert.Equal(t, "No user in context", w.Body.String())
	})

	t.Run("No token", func(t *testing.T) {
		w := serve("")
		assert.Equal(t, "No user in context", w.Body.String())
	})

	t.Run("Invalid token format", func(t *testing.T) {
		w := serve("InvalidFormat")
		assert.Equal(t, "No user in context", w.Body.String())
	})

	t.Run("No JWT secret", func(t *testing.T) {
		tokenString, err := tokens.Issue(Principal{ID: "123", Username: "testuser"})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/query", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()
		AuthMiddleware(NewTokenManager("", time.Hour), testHandler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "JWT secret not set")
	})
}
