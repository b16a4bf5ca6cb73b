package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for every structural, cryptographic
// or expiry failure. Callers never see partial claims.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the decoded payload of a signed token.
type Claims struct {
	UserID uint64 `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies compact HMAC-SHA256 tokens carrying the
// subject (email), user id and role. The signing key is symmetric and held
// for the lifetime of the process.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

// NewTokenCodec decodes the base64 signing secret and fixes the token TTL.
// An absent or non-base64 secret is a startup error.
func NewTokenCodec(secretB64 string, ttl time.Duration) (*TokenCodec, error) {
	if secretB64 == "" {
		return nil, errors.New("token signing secret is required")
	}
	key, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, fmt.Errorf("token signing secret is not valid base64: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenCodec{key: key, ttl: ttl}, nil
}

// SigningKey exposes the decoded key for the request authentication layer,
// which verifies tokens with the same symmetric secret.
func (c *TokenCodec) SigningKey() []byte {
	return c.key
}

// Sign issues a token for the given subject with role and user id embedded
// as custom claims. Expiry is issuedAt plus the configured TTL.
func (c *TokenCodec) Sign(subject string, userID uint64, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Verify checks signature integrity and expiry. Any failure yields
// ErrInvalidToken; a single flipped byte in the signature is enough.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject extracts the subject of a verified token.
func (c *TokenCodec) Subject(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RoleOf extracts the role claim of a verified token.
func (c *TokenCodec) RoleOf(tokenString string) (Role, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return Role(claims.Role), nil
}
