package postview

import "github.com/fragmede/quill/internal/api"

// FlatComment is a comment flattened from the reply tree for display.
type FlatComment struct {
	Comment    api.Comment
	Depth      int
	IsAuthor   bool
	ReplyCount int
}
