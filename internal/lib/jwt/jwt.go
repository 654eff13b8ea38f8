package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// NewToken signs a {user_id, access} pair with the shared secret. There is no
// expiry or nonce claim: the same user and scope always produce the same
// token, and revocation happens by deleting the stored token row, not by
// waiting out a TTL.
func NewToken(userID, access, secret string) (string, error) {
	const op = "lib.jwt.NewToken"

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"access":  access,
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ParseToken verifies the signature and returns the embedded user id and
// access scope.
func ParseToken(tokenStr, secret string) (userID string, access string, err error) {
	const op = "lib.jwt.ParseToken"

	claims := jwt.MapClaims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: unexpected signing method", op)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !parsed.Valid {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("%s: missing user_id claim: %w", op, ErrInvalidToken)
	}

	access, ok = claims["access"].(string)
	if !ok || access == "" {
		return "", "", fmt.Errorf("%s: missing access claim: %w", op, ErrInvalidToken)
	}

	return userID, access, nil
}
