package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped into every session token and required on validation.
const Issuer = "sportsbook"

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

var (
	ErrSecretNotSet = errors.New("jwt secret not initialized")
	ErrInvalidToken = errors.New("invalid session token")
)

var jwtSecret []byte

// InitJWT sets the HS256 signing secret shared with the login service.
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// Claims is the session payload. Subject carries the user ID as a string and
// must agree with UserID.
type Claims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for userID.
//
// Sessions are issued by the login service, which shares JWT_SECRET with this
// one; this service only validates them. GenerateToken mirrors that issuer's
// format for tests and operator tooling.
func GenerateToken(userID uint, isAdmin bool) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrSecretNotSet
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(jwtSecret)
}

// ValidateToken verifies signature, issuer and expiry and returns the claims.
// A token without an expiry or whose subject disagrees with user_id is rejected.
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrSecretNotSet
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID == 0 || claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
