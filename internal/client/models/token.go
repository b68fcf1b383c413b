package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is the credential pair issued by the backend.
//
//   - Access is short-lived and is attached to every authenticated request.
//   - Refresh is stored alongside it but never used to renew the access
//     token: an expired access token surfaces as a 401 to the caller.
type TokenPair struct {
	Access  string
	Refresh string
}

// Valid reports whether the pair carries an access token.
func (p *TokenPair) Valid() bool {
	return p != nil && p.Access != ""
}

// Clone returns a copy of p (nil stays nil).
func (p *TokenPair) Clone() *TokenPair {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// AccessExpiry reads the exp claim of a JWT access token without checking
// its signature. ok is false for opaque tokens or tokens without exp.
// Display only; nothing renews tokens based on it.
func (p *TokenPair) AccessExpiry() (exp time.Time, ok bool) {
	if !p.Valid() {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.Access, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
