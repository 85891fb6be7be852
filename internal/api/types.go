package api

import (
	"encoding/json"
	"time"
)

// Board identifies a post board on the blog.
type Board string

const (
	BoardTech      Board = "tech"
	BoardFree      Board = "free"
	BoardGuestbook Board = "guestbook"
)

// User is the identity record returned by the users endpoints.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenResponse is the body of POST /users/token/.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`

	// Token holds the nested {"token": {...}} form some server builds send.
	Token *struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"token"`
}

// AccessToken returns the bearer credential, preferring the top-level
// access field. Empty means the server did not issue one.
func (r *TokenResponse) AccessToken() string {
	if r == nil {
		return ""
	}
	if r.Access != "" {
		return r.Access
	}
	if r.Token != nil {
		return r.Token.Access
	}
	return ""
}

// RegisterRequest is the body of POST /users/register/.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// Post is an entry in a board listing.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    User      `json:"author"`
	BoardType string    `json:"board_type"`
	Category  string    `json:"category"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostDetail is the body of GET /posts/{id}/.
type PostDetail struct {
	Post
	HTMLContent string    `json:"html_content"`
	LikeCount   int       `json:"like_count"`
	IsLiked     bool      `json:"is_liked"`
	Comments    []Comment `json:"comments"`
}

// Comment is a post comment with its first level of replies.
type Comment struct {
	ID        int       `json:"id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Parent    *int      `json:"parent"`
	Replies   []Comment `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorPayload is the error body shape used by the API. Any field may be
// missing.
type ErrorPayload struct {
	Detail   string   `json:"detail"`
	Error    string   `json:"error"`
	Email    Messages `json:"email"`
	Username Messages `json:"username"`
	Password Messages `json:"password"`

	// Message is set when the whole body is a bare JSON string.
	Message string `json:"-"`
}

// Messages decodes a field error given either as a list of strings or a
// single string.
type Messages []string

func (m *Messages) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*m = Messages{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		// Unknown shape; treat as absent rather than failing the decode.
		*m = nil
		return nil
	}
	*m = many
	return nil
}

// First returns the first message or "".
func (m Messages) First() string {
	if len(m) == 0 {
		return ""
	}
	return m[0]
}

// Empty reports whether no recognised field carries a message.
func (p ErrorPayload) Empty() bool {
	return p.Detail == "" && p.Error == "" && p.Message == "" &&
		p.Email.First() == "" && p.Username.First() == "" && p.Password.First() == ""
}

func decodeErrorPayload(body []byte) ErrorPayload {
	var p ErrorPayload
	if len(body) == 0 {
		return p
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		p.Message = s
		return p
	}
	_ = json.Unmarshal(body, &p)
	return p
}
