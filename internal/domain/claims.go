package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an access token. Signatures are never
// checked here; the server owns verification.
type Claims map[string]any

// DecodeClaims returns the payload claims of a three-segment token. Only the
// payload segment has to decode; the header may be opaque. Malformed tokens
// decode to empty claims.
func DecodeClaims(token string) Claims {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return decodePayload(parser, token)
	}

	return Claims(claims)
}

func decodePayload(parser *jwt.Parser, token string) Claims {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return Claims{}
	}

	payload, err := parser.DecodeSegment(segments[1])
	if err != nil {
		return Claims{}
	}

	claims := Claims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}
	}

	return claims
}

func (c Claims) ExpiresAt() (time.Time, bool) {
	exp, err := jwt.MapClaims(c).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// OrganizationID reads "oid", falling back to "orgId".
func (c Claims) OrganizationID() string {
	if oid := c.String("oid"); oid != "" {
		return oid
	}

	return c.String("orgId")
}

// Email reads "email", falling back to the first entry of "emails".
func (c Claims) Email() string {
	if email := c.String("email"); email != "" {
		return email
	}

	emails, ok := c["emails"].([]any)
	if !ok {
		return ""
	}
	for _, raw := range emails {
		if email, ok := raw.(string); ok && strings.TrimSpace(email) != "" {
			return strings.TrimSpace(email)
		}
	}

	return ""
}

func (c Claims) Subject() string {
	return c.String("sub")
}

func (c Claims) String(name string) string {
	value, ok := c[name].(string)
	if !ok {
		return ""
	}

	return strings.TrimSpace(value)
}
