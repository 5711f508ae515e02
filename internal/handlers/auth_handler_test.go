package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"card-bookmark-api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newLoginRouter(t *testing.T) (*gin.Engine, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	issuer := auth.NewIssuer("secret", "iss", "aud")

	r := gin.New()
	r.POST("/login", Login(issuer, auth.AdminCredentials{Username: "admin", PasswordHash: hash}))
	return r, issuer
}

func postLogin(r *gin.Engine, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_IssuesToken(t *testing.T) {
	r, issuer := newLoginRouter(t)

	w := postLogin(r, map[string]string{"username": "admin", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := issuer.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := newLoginRouter(t)

	w := postLogin(r, map[string]string{"username": "admin", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	r, _ := newLoginRouter(t)

	w := postLogin(r, map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
