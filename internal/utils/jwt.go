package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // sentinel error for invalid tokens
	"time"   // issued-at timestamps

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by ParseAccessToken when a token is
// malformed, carries a bad signature, or has no usable identity claim.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT carrying the user's email
// as its identity claim.  The signing secret is process-wide
// configuration loaded once at startup; no key rotation is supported.
// No "exp" claim is set, so issued tokens never expire.  This mirrors
// the deployed behavior and is a known weakness rather than an
// oversight; see the refresh-token endpoint for the only mitigation
// clients have.
func NewAccessToken(secret, email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// ParseAccessToken verifies the signature of a token and returns the
// email claim it carries.  Tokens signed with a non-HMAC method are
// rejected so an attacker cannot downgrade the algorithm.  Any failure
// collapses into ErrInvalidToken; callers never learn why a token was
// rejected.
func ParseAccessToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}
