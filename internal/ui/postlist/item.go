package postlist

import (
	"strings"

	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/render"
)

const excerptLen = 200

// PostItem wraps a board post for the bubbles list.
type PostItem struct {
	api.Post
	Index int
}

func (p PostItem) Title() string {
	if p.Post.Title != "" {
		return p.Post.Title
	}
	return "(untitled)"
}

func (p PostItem) Description() string {
	parts := make([]string, 0, 3)
	if p.Author.Username != "" {
		parts = append(parts, "by "+p.Author.Username)
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if ago := render.TimeAgo(p.CreatedAt); ago != "" {
		parts = append(parts, ago)
	}
	return strings.Join(parts, " | ")
}

// Excerpt returns a one-line preview of the post body no wider than width.
func (p PostItem) Excerpt(width int) string {
	return render.Excerpt(p.Content, min(excerptLen, width))
}

func (p PostItem) FilterValue() string {
	return p.Post.Title + " " + p.Author.Username
}
