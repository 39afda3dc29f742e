package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	email := "reader@example.com"

	tok, err := NewAccessToken(secret, email)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	got, err := ParseAccessToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if got != email {
		t.Fatalf("email mismatch: got %q want %q", got, email)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("right-secret", "a@b.com")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	_, err = ParseAccessToken("wrong-secret", tok)
	if err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := ParseAccessToken("k", raw); err != ErrInvalidToken {
			t.Fatalf("raw %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestParseAccessToken_MissingEmailClaim(t *testing.T) {
	t.Parallel()

	secret := "k"
	// A well-signed token without a usable identity claim must still be
	// rejected.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"iat": time.Now().Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseAccessToken(secret, signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAccessTokenHasNoExpiry(t *testing.T) {
	t.Parallel()

	secret := "k"
	signed, err := NewAccessToken(secret, "a@b.com")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	tok, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: err=%v valid=%v", err, tok.Valid)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if _, ok := claims["exp"]; ok {
		t.Fatalf("token unexpectedly carries an exp claim")
	}
}
