package api

import (
	"context"
	"net/http"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ObtainToken exchanges credentials for a bearer token.
// A 2xx response without a token is not an error here; callers decide.
func (c *Client) ObtainToken(ctx context.Context, email, password string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.do(ctx, c.http, http.MethodPost, "/users/token/", tokenRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. It does not log in, and the created-user
// body is not read.
func (c *Client) Register(ctx context.Context, r RegisterRequest) error {
	return c.do(ctx, c.http, http.MethodPost, "/users/register/", r, nil)
}

// Me fetches the profile of the user owning token.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, c.authed(ctx, token), http.MethodGet, "/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
