package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsbook/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", auth.AuthMiddleware(), func(c *gin.Context) {
		id, ok := auth.GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestTokenRoundTrip(t *testing.T) {
	auth.InitJWT("test-secret")

	token, err := auth.GenerateToken(42, true)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.True(t, claims.IsAdmin)

	auth.InitJWT("other-secret")
	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	auth.InitJWT("test-secret")
	token, err := auth.GenerateToken(7, false)
	require.NoError(t, err)

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: token}) }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", token) }, http.StatusUnauthorized},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}

	router := newRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, &claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidateTokenRejects(t *testing.T) {
	auth.InitJWT("test-secret")
	secret := []byte("test-secret")
	now := time.Now()

	valid := jwt.RegisteredClaims{
		Issuer:    auth.Issuer,
		Subject:   "9",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	foreign := valid
	foreign.Issuer = "someone-else"

	cases := []struct {
		name  string
		token string
	}{
		{"expired", sign(t, jwt.SigningMethodHS256, secret, auth.Claims{UserID: 9, RegisteredClaims: expired})},
		{"no expiry", sign(t, jwt.SigningMethodHS256, secret, auth.Claims{UserID: 9, RegisteredClaims: noExpiry})},
		{"foreign issuer", sign(t, jwt.SigningMethodHS256, secret, auth.Claims{UserID: 9, RegisteredClaims: foreign})},
		{"subject mismatch", sign(t, jwt.SigningMethodHS256, secret, auth.Claims{UserID: 10, RegisteredClaims: valid})},
		{"missing user", sign(t, jwt.SigningMethodHS256, secret, auth.Claims{RegisteredClaims: valid})},
		{"other hmac", sign(t, jwt.SigningMethodHS512, secret, auth.Claims{UserID: 9, RegisteredClaims: valid})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.ValidateToken(tc.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}

	claims, err := auth.ValidateToken(sign(t, jwt.SigningMethodHS256, secret, auth.Claims{UserID: 9, RegisteredClaims: valid}))
	require.NoError(t, err)
	assert.EqualValues(t, 9, claims.UserID)
}
