package session

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fragmede/quill/internal/api"
	"github.com/golang-jwt/jwt/v5"
)

func TestLoginErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		kind Kind
	}{
		{
			"detail wins",
			&api.Error{StatusCode: 400, Payload: api.ErrorPayload{Detail: "Invalid credentials", Error: "other"}},
			"Invalid credentials", KindRejected,
		},
		{
			"error field",
			&api.Error{StatusCode: 400, Payload: api.ErrorPayload{Error: "No active account found"}},
			"No active account found", KindRejected,
		},
		{
			"status only",
			&api.Error{StatusCode: 500},
			"request failed with status code 500", KindRejected,
		},
		{
			"wrapped api error",
			fmt.Errorf("calling api: %w", &api.Error{StatusCode: 401, Payload: api.ErrorPayload{Detail: "nope"}}),
			"nope", KindRejected,
		},
		{
			"transport",
			errors.New("dial tcp: connection refused"),
			"dial tcp: connection refused", KindTransport,
		},
		{
			"empty message",
			errors.New(""),
			loginFallback, KindTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loginError(tt.err)
			if got.Message != tt.want {
				t.Errorf("message = %q, want %q", got.Message, tt.want)
			}
			if got.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", got.Kind, tt.kind)
			}
			if !errors.Is(got, tt.err) {
				t.Error("cause should be unwrappable")
			}
		})
	}
}

func TestRegisterErrorMessage(t *testing.T) {
	payload := func(p api.ErrorPayload) error {
		return &api.Error{StatusCode: http.StatusBadRequest, Payload: p}
	}
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail first", payload(api.ErrorPayload{Detail: "d", Email: api.Messages{"e"}}), "d"},
		{"email before username", payload(api.ErrorPayload{Email: api.Messages{"already taken"}, Username: api.Messages{"u"}}), "already taken"},
		{"username before password", payload(api.ErrorPayload{Username: api.Messages{"u"}, Password: api.Messages{"p"}}), "u"},
		{"password", payload(api.ErrorPayload{Password: api.Messages{"too short", "too common"}}), "too short"},
		{"bare string body", payload(api.ErrorPayload{Message: "server says no"}), "server says no"},
		{"unrecognised", payload(api.ErrorPayload{}), registerFallback},
		{"transport", errors.New("connection reset"), "connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registerError(tt.err).Message; got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthErrorPassthrough(t *testing.T) {
	inner := &AuthError{Kind: KindRejected, Op: "login", Message: "missing credential"}
	if got := registerError(inner); got != inner {
		t.Error("an AuthError from login must reach the caller unchanged")
	}
	if got := loginError(inner); got != inner {
		t.Error("loginError should not rewrap an AuthError")
	}
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signedToken(t, jwt.MapClaims{"user_id": 42, "exp": exp.Unix()})

	c, ok := ParseClaims(tok)
	if !ok {
		t.Fatal("expected a parseable JWT")
	}
	if c.UserID != "42" {
		t.Errorf("UserID = %q", c.UserID)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v", c.ExpiresAt)
	}
	if c.Expired(exp.Add(-time.Second)) || !c.Expired(exp) {
		t.Error("Expired boundary wrong")
	}

	if _, ok := ParseClaims("abc123"); ok {
		t.Error("opaque token should not parse")
	}

	sub := signedToken(t, jwt.MapClaims{"sub": "alice"})
	c, ok = ParseClaims(sub)
	if !ok || c.UserID != "alice" || c.Expired(time.Now()) {
		t.Errorf("sub-only claims = %+v, %v", c, ok)
	}
}
