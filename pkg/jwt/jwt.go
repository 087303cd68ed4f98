package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrTokenType = errors.New("invalid token type")

type Claims struct {
	UserID   int64  `json:"user_id,string"`
	Username string `json:"username"`
	Admin    bool   `json:"admin,omitempty"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// Subject identifies who a token is issued for.
type Subject struct {
	UserID   int64
	Username string
	Admin    bool
}

// GenerateToken signs a token of the given type. The jti is random so every
// refresh token can be blacklisted on its own.
func GenerateToken(secret []byte, sub Subject, tokenType string, expire time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   sub.UserID,
		Username: sub.Username,
		Admin:    sub.Admin,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func ParseToken(secret []byte, expectedType string, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if claims.Type != expectedType {
		return nil, ErrTokenType
	}

	return claims, nil
}

// Remaining is how long the token stays valid; blacklist entries live that long.
func (c *Claims) Remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := time.Until(c.ExpiresAt.Time)
	if d < 0 {
		return 0
	}
	return d
}
