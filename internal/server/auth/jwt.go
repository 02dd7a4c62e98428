// Package auth issues and verifies bearer tokens and hashes credentials.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the registered claims plus the account identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies signature, algorithm and expiry and returns the
// embedded user id. Expired tokens yield common.ErrTokenExpired, every other
// failure wraps common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// Tokens binds the process-wide signing key and lifetime so callers do not
// pass the secret around.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secretKey string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secretKey), ttl: ttl}
}

// Issue returns a signed token for userID expiring after the configured ttl.
func (t *Tokens) Issue(userID string) (string, error) {
	return GenerateToken(userID, t.secret, t.ttl)
}

// Verify returns the user id carried by a valid, unexpired token.
func (t *Tokens) Verify(token string) (string, error) {
	return GetUserIDFromToken(token, t.secret)
}
