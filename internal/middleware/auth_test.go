package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"card-bookmark-api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(issuer *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(issuer))
	r.GET("/protected", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("username")) })
	return r
}

func TestJWTAuthMiddleware_Success(t *testing.T) {
	issuer := auth.NewIssuer("secret", "iss", "aud")
	r := newProtectedRouter(issuer)

	token, err := issuer.GenerateToken("alice")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "alice", w.Body.String())
}

func TestJWTAuthMiddleware_QueryToken(t *testing.T) {
	issuer := auth.NewIssuer("secret", "iss", "aud")
	r := newProtectedRouter(issuer)

	token, err := issuer.GenerateToken("alice")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	r := newProtectedRouter(auth.NewIssuer("secret", "iss", "aud"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BadToken(t *testing.T) {
	r := newProtectedRouter(auth.NewIssuer("secret", "iss", "aud"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
