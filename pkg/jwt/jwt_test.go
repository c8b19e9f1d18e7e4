package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestGenerateValidateRoundtrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Generate(42, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	session, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if session.UserID != 42 || session.Username != "alice" {
		t.Errorf("session = %+v, want UserID 42 / alice", session)
	}
}

func TestValidateFailsClosed(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	expired, err := NewIssuer("test-secret", -time.Minute).Generate(42, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	foreign, err := NewIssuer("other-secret", time.Hour).Generate(42, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// A token that skips signing entirely must be rejected by the
	// signing-method check, not accepted on its claims.
	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"sub": 42, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	missingSub, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expired},
		{"wrong secret", foreign},
		{"alg none", unsigned},
		{"missing subject", missingSub},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate(%s) error = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}
