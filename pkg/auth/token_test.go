package auth

import (
	"errors"
	"reflect"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// sign builds an HS256 token; the key is irrelevant since ParseToken does
// not verify signatures.
func sign(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func TestParseToken(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		claims     jwtlib.MapClaims
		wantSub    string
		wantName   string
		wantScopes []string
		wantExp    time.Time
	}{
		{
			name:       "full claims",
			claims:     jwtlib.MapClaims{"sub": "u-1", "preferred_username": "alice", "scope": "openid profile", "exp": exp.Unix()},
			wantSub:    "u-1",
			wantName:   "alice",
			wantScopes: []string{"openid", "profile"},
			wantExp:    exp,
		},
		{
			name:       "email fallback and array scopes",
			claims:     jwtlib.MapClaims{"sub": "u-2", "email": "bob@example.com", "scope": []any{"read", 3, "write"}},
			wantSub:    "u-2",
			wantName:   "bob@example.com",
			wantScopes: []string{"read", "write"},
		},
		{
			name:    "no expiry",
			claims:  jwtlib.MapClaims{"sub": "u-3"},
			wantSub: "u-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := ParseToken(sign(t, tt.claims))
			if err != nil {
				t.Fatalf("ParseToken() error: %v", err)
			}
			if tok.Subject != tt.wantSub {
				t.Errorf("Subject = %q, want %q", tok.Subject, tt.wantSub)
			}
			if tok.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", tok.Name, tt.wantName)
			}
			if !reflect.DeepEqual(tok.Scopes, tt.wantScopes) {
				t.Errorf("Scopes = %v, want %v", tok.Scopes, tt.wantScopes)
			}
			if !tok.ExpiresAt.Equal(tt.wantExp) {
				t.Errorf("ExpiresAt = %v, want %v", tok.ExpiresAt, tt.wantExp)
			}
		})
	}
}

func TestParseToken_BearerPrefix(t *testing.T) {
	raw := sign(t, jwtlib.MapClaims{"sub": "u-1"})
	tok, err := ParseToken("Bearer " + raw)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if tok.Raw != raw {
		t.Errorf("Raw = %q, want the token without prefix", tok.Raw)
	}
	if tok.Header() != "Bearer "+raw {
		t.Errorf("Header() = %q", tok.Header())
	}
	if tok.Headers()["Authorization"] != "Bearer "+raw {
		t.Errorf("Headers() = %v", tok.Headers())
	}
}

func TestParseToken_Malformed(t *testing.T) {
	for _, raw := range []string{"", "Bearer ", "not-a-jwt", "a.b.c"} {
		if _, err := ParseToken(raw); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("ParseToken(%q) error = %v, want ErrMalformedToken", raw, err)
		}
	}
}

func TestToken_Expired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		exp     time.Time
		leeway  time.Duration
		expired bool
	}{
		{"future", now.Add(time.Hour), 0, false},
		{"past", now.Add(-time.Second), 0, true},
		{"within leeway", now.Add(30 * time.Second), time.Minute, true},
		{"no expiry", time.Time{}, time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &Token{Subject: "u", ExpiresAt: tt.exp}
			if got := tok.Expired(now, tt.leeway); got != tt.expired {
				t.Errorf("Expired() = %v, want %v", got, tt.expired)
			}
		})
	}

	expired := &Token{Subject: "u", ExpiresAt: now.Add(-time.Minute)}
	if err := expired.Check(now); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Check() = %v, want ErrTokenExpired", err)
	}
	if err := (&Token{}).Check(now); err != nil {
		t.Errorf("Check() without expiry = %v, want nil", err)
	}
}
