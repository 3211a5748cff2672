// Package sessiontoken wraps an opaque snapshot in a signed token so the
// locally cached session slot is tamper-evident. Tokens carry no expiry: a
// cached session stays valid until an explicit logout or a failed directory
// revalidation.
package sessiontoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrKeyTooShort  = errors.New("signing key must be at least 32 bytes")
)

const issuer = "pos-system"

// Claims carries the serialized session snapshot.
type Claims struct {
	Snapshot json.RawMessage `json:"snapshot"`
	jwt.RegisteredClaims
}

// Signer signs and verifies session snapshots with an HMAC key.
type Signer struct {
	key []byte
}

// NewSigner creates a signer. The key must be at least 32 bytes for HS256.
func NewSigner(key []byte) (*Signer, error) {
	if len(key) < 32 {
		return nil, ErrKeyTooShort
	}
	return &Signer{key: key}, nil
}

// Wrap signs the snapshot and returns the compact token string.
func (s *Signer) Wrap(snapshot []byte) (string, error) {
	claims := Claims{
		Snapshot: snapshot,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign snapshot: %w", err)
	}
	return signed, nil
}

// Unwrap verifies the token and returns the snapshot it carries. Any parse
// or signature failure is reported as ErrInvalidToken.
func (s *Signer) Unwrap(tokenString string) ([]byte, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if len(claims.Snapshot) == 0 {
		return nil, ErrInvalidToken
	}
	return claims.Snapshot, nil
}
