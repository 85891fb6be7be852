package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestObtainToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/token/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		var body tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body.Email != "a@b.com" || body.Password != "right" {
			t.Errorf("body = %+v", body)
		}
		w.Write([]byte(`{"access":"tok-1","user":{"username":"alice"}}`))
	})

	resp, err := c.ObtainToken(context.Background(), "a@b.com", "right")
	if err != nil {
		t.Fatalf("ObtainToken: %v", err)
	}
	if resp.AccessToken() != "tok-1" {
		t.Errorf("access = %q", resp.AccessToken())
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Errorf("user = %+v", resp.User)
	}
}

func TestAccessTokenNestedShape(t *testing.T) {
	var resp TokenResponse
	if err := json.Unmarshal([]byte(`{"token":{"access":"nested","refresh":"r"}}`), &resp); err != nil {
		t.Fatal(err)
	}
	if got := resp.AccessToken(); got != "nested" {
		t.Errorf("AccessToken() = %q, want nested", got)
	}
	var nilResp *TokenResponse
	if nilResp.AccessToken() != "" {
		t.Error("nil response should yield empty token")
	}
}

func TestErrorPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"email":["already taken"],"username":"too short"}`))
	})

	err := c.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "x", Username: "a"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Payload.Email.First() != "already taken" {
		t.Errorf("email = %v", apiErr.Payload.Email)
	}
	if apiErr.Payload.Username.First() != "too short" {
		t.Errorf("username = %v", apiErr.Payload.Username)
	}
	if apiErr.Error() != "request failed with status code 400" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
	if apiErr.RequestID == "" {
		t.Error("request ID not recorded")
	}
}

func TestDecodeErrorPayloadShapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		empty bool
		check func(ErrorPayload) bool
	}{
		{"detail", `{"detail":"Invalid credentials"}`, false, func(p ErrorPayload) bool { return p.Detail == "Invalid credentials" }},
		{"bare string", `"server exploded"`, false, func(p ErrorPayload) bool { return p.Message == "server exploded" }},
		{"html", `<html>oops</html>`, true, nil},
		{"unknown fields", `{"non_field_errors":["x"]}`, true, nil},
		{"odd field type", `{"password":{"a":1}}`, true, nil},
		{"empty", ``, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decodeErrorPayload([]byte(tt.body))
			if p.Empty() != tt.empty {
				t.Errorf("Empty() = %v, want %v (%+v)", p.Empty(), tt.empty, p)
			}
			if tt.check != nil && !tt.check(p) {
				t.Errorf("unexpected payload %+v", p)
			}
		})
	}
}

func TestMeSendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
			return
		}
		w.Write([]byte(`{"id":7,"username":"alice","email":"a@b.com"}`))
	})

	user, err := c.Me(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.Username != "alice" || user.ID != 7 {
		t.Errorf("user = %+v", user)
	}

	_, err = c.Me(context.Background(), "stale")
	var apiErr *Error
	if !errors.As(err, &apiErr) || !apiErr.Unauthorized() {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestBatchBoardPosts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts/tech/":
			w.Write([]byte(`[{"id":1,"title":"Go","author":{"username":"alice"}}]`))
		case "/posts/guestbook/":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	got, err := c.BatchBoardPosts(context.Background(), Boards)
	if err != nil {
		t.Fatalf("BatchBoardPosts: %v", err)
	}
	if len(got[BoardTech]) != 1 || got[BoardTech][0].Author.Username != "alice" {
		t.Errorf("tech = %+v", got[BoardTech])
	}
	if _, ok := got[BoardGuestbook]; !ok {
		t.Error("guestbook should be present even when empty")
	}
	if _, ok := got[BoardFree]; ok {
		t.Error("failed board should be absent")
	}
}

func TestBoardPostsUnknownBoard(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", time.Second)
	if _, err := c.BoardPosts(context.Background(), Board("nope")); err == nil {
		t.Fatal("expected error for unknown board")
	}
}

func TestPostDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/42/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":42,"title":"Hello","html_content":"<p>hi</p>","like_count":3}`))
	})

	post, err := c.Post(context.Background(), 42)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if post.ID != 42 || post.HTMLContent != "<p>hi</p>" || post.LikeCount != 3 {
		t.Errorf("post = %+v", post)
	}
}
