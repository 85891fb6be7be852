package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout = 10 * time.Second
	maxConcurrent  = 4
	userAgent      = "quill/1.0"
)

// Client is the blog API client.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8000/api/v1".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// authed returns an HTTP client that sends token as a bearer credential.
func (c *Client) authed(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.http.Timeout
	return hc
}

// do sends a request to path and decodes a 2xx JSON response into dst.
// body is JSON-encoded when non-nil. dst may be nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, dst interface{}) error {
	url := c.baseURL + path

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("api: %s %s -> HTTP %d (request %s)", method, path, resp.StatusCode, reqID)
		return &Error{
			StatusCode: resp.StatusCode,
			RequestID:  reqID,
			Payload:    decodeErrorPayload(raw),
			Body:       raw,
		}
	}

	if dst == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}
