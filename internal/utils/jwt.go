// Package utils provides helpers for session tokens, password hashing and
// avatar URLs.
package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session token remains cryptographically
// valid. The stored-token check in the auth middleware can cut a session
// short; nothing extends one past this.
const SessionTTL = time.Hour

// ErrInvalidToken is returned when a presented token fails signature,
// format or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// SessionToken is a signed HS256 JWT bound to a user together with its
// expiry. The Token string is returned to the client and recorded on the
// user row as the single currently valid session.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// NewSessionToken builds and signs a session JWT for a user. The subject
// claim carries the user ID; exp and iat are set from SessionTTL.
func NewSessionToken(secret string, userID uint64) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(SessionTTL)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies signature and expiry and returns the user ID
// from the subject claim. Tokens signed with a different method than HMAC
// are rejected outright.
func ParseSessionToken(secret, raw string) (uint64, error) {
	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
