// Package jwt mints and validates the signed session credential.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any malformed, mis-signed or expired
// token. Validation fails closed: no partial identity is ever returned.
var ErrInvalidToken = errors.New("invalid session token")

// Session is the validated token payload. Username is denormalized for
// convenience and must not be trusted for authorization decisions; callers
// needing current data re-fetch the account.
type Session struct {
	UserID   uint
	Username string
}

// Issuer signs and validates session tokens with a symmetric server secret.
type Issuer struct {
	secret []byte
	expiry time.Duration
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry}
}

// Generate creates a new signed token for a user.
func (i *Issuer) Generate(userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(i.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Validate parses and verifies a token. Any failure, including an unexpected
// signing method, yields ErrInvalidToken.
func (i *Issuer) Validate(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)

	return &Session{UserID: uint(sub), Username: username}, nil
}
