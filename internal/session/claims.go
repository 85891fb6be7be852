package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the parts of a JWT access token the client cares about.
// The token is not verified; the server remains the authority.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an exp that has passed.
// Tokens without exp never expire from the client's point of view.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims reads claims from a JWT without checking its signature.
// ok is false for opaque (non-JWT) tokens.
func ParseClaims(token string) (Claims, bool) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, false
	}

	var c Claims
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	switch v := mc["user_id"].(type) {
	case string:
		c.UserID = v
	case float64:
		c.UserID = fmt.Sprintf("%.0f", v)
	}
	if c.UserID == "" {
		c.UserID, _ = mc.GetSubject()
	}
	return c, true
}
