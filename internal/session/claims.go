package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// claim names used by ASP.NET Core identity tokens
const (
	nameIDClaim = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	emailClaim  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
)

// Claims is what `auth status` shows about the current token.
type Claims struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry in the past.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the token payload without verifying the signature; only
// the server can do that. Opaque (non-JWT) tokens report false.
func (s *Store) Claims() (Claims, bool) {
	return DecodeClaims(s.Token())
}

// DecodeClaims is Claims for an arbitrary token.
func DecodeClaims(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, false
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if c.Subject == "" {
		c.Subject, _ = mc[nameIDClaim].(string)
	}
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	} else if email, ok := mc[emailClaim].(string); ok {
		c.Email = email
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, true
}
