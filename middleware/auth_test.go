package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"wheatstraw-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func setupAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": middleware.GetUserID(c),
			"email":  middleware.GetUserEmail(c),
			"role":   middleware.GetRole(c),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := setupAuthRouter()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "a81bc81b-dead-4e5d-abff-90865d1e13b1",
		"email": "mei@example.com",
		"name":  "Mei",
		"role":  "user",
	})

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a81bc81b-dead-4e5d-abff-90865d1e13b1")
	assert.Contains(t, w.Body.String(), "mei@example.com")
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	r := setupAuthRouter()
	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := setupAuthRouter()
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-1"})

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MissingSubjectClaim(t *testing.T) {
	r := setupAuthRouter()
	token := signToken(t, testSecret, jwt.MapClaims{"email": "mei@example.com"})

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_ForbidsNonAdmin(t *testing.T) {
	r := setupAuthRouter(middleware.RequireAdmin())
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "user-1", "role": "user"})

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	r := setupAuthRouter(middleware.RequireAdmin())
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "admin-1", "role": "admin"})

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
