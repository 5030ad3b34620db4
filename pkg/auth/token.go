package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Sentinel errors.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)

// Token is a parsed bearer token.
type Token struct {
	Raw string

	// Subject is the "sub" claim.
	Subject string

	// Name is the "preferred_username" claim, falling back to "email".
	Name string

	Scopes []string

	// ExpiresAt is zero when the token carries no "exp" claim.
	ExpiresAt time.Time
}

// ParseToken reads the claims of a JWT without verifying its signature.
// A "Bearer " prefix is accepted and stripped.
func ParseToken(raw string) (*Token, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	t := &Token{
		Raw:     raw,
		Subject: claimString(claims, "sub"),
		Name:    claimString(claims, "preferred_username"),
		Scopes:  extractScopes(claims, "scope"),
	}
	if t.Name == "" {
		t.Name = claimString(claims, "email")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		t.ExpiresAt = exp.Time
	}
	return t, nil
}

// Expired reports whether t expires before now plus leeway.
func (t *Token) Expired(now time.Time, leeway time.Duration) bool {
	return !t.ExpiresAt.IsZero() && !now.Add(leeway).Before(t.ExpiresAt)
}

// Check returns ErrTokenExpired when t is expired at now.
func (t *Token) Check(now time.Time) error {
	if t.Expired(now, 0) {
		return fmt.Errorf("%w: subject %q expired at %s", ErrTokenExpired, t.Subject, t.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// Header returns the Authorization header value for t.
func (t *Token) Header() string {
	return "Bearer " + t.Raw
}

// Headers returns t as a header map, for router and call option headers.
func (t *Token) Headers() map[string]string {
	return map[string]string{"Authorization": t.Header()}
}

func claimString(claims jwtlib.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// extractScopes extracts scopes from JWT claims.
// The scope claim can be either a space-separated string or a JSON array.
func extractScopes(claims jwtlib.MapClaims, key string) []string {
	switch val := claims[key].(type) {
	case string:
		parts := strings.Fields(val)
		if len(parts) == 0 {
			return nil
		}
		return parts
	case []any:
		var scopes []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				scopes = append(scopes, s)
			}
		}
		return scopes
	}
	return nil
}
