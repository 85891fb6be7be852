package session

import (
	"errors"

	"github.com/fragmede/quill/internal/api"
)

// Kind classifies an AuthError.
type Kind string

const (
	// KindTransport: the server could not be reached or answered in an
	// unexpected shape.
	KindTransport Kind = "transport"
	// KindRejected: the server answered but refused the credentials.
	KindRejected Kind = "rejected"
	// KindValidation: the input was refused field by field, or was empty.
	KindValidation Kind = "validation"
	// KindStorage: the credential could not be persisted.
	KindStorage Kind = "storage"
)

const (
	loginFallback    = "login failed"
	registerFallback = "registration failed"
	profileFallback  = "could not load profile"
	missingToken     = "missing credential"
)

// AuthError is the single failure type returned by Manager operations.
// Error returns Message unchanged so views can show it directly.
type AuthError struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an AuthError of kind k.
func IsKind(err error, k Kind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == k
}

// loginError normalises a token request failure. Message priority is the
// server detail, the server error field, the transport message, and
// finally a generic fallback.
func loginError(err error) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	out := &AuthError{Kind: KindTransport, Op: "login", Err: err}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		out.Kind = KindRejected
		switch {
		case apiErr.Payload.Detail != "":
			out.Message = apiErr.Payload.Detail
			return out
		case apiErr.Payload.Error != "":
			out.Message = apiErr.Payload.Error
			return out
		}
	}
	out.Message = err.Error()
	if out.Message == "" {
		out.Message = loginFallback
	}
	return out
}

// registerError normalises a registration failure. A structured payload
// yields the first of detail, email, username, password; an unrecognised
// payload yields the generic message. Errors without a response keep
// their own message.
func registerError(err error) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		msg := err.Error()
		if msg == "" {
			msg = registerFallback
		}
		return &AuthError{Kind: KindTransport, Op: "register", Message: msg, Err: err}
	}

	p := apiErr.Payload
	out := &AuthError{Kind: KindValidation, Op: "register", Err: err}
	for _, msg := range []string{p.Detail, p.Email.First(), p.Username.First(), p.Password.First(), p.Message} {
		if msg != "" {
			out.Message = msg
			return out
		}
	}
	out.Kind = KindRejected
	out.Message = registerFallback
	return out
}

func profileError(err error) *AuthError {
	out := &AuthError{Kind: KindTransport, Op: "profile", Message: err.Error(), Err: err}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		out.Kind = KindRejected
		if apiErr.Payload.Detail != "" {
			out.Message = apiErr.Payload.Detail
		}
	}
	if out.Message == "" {
		out.Message = profileFallback
	}
	return out
}
