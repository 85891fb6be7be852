package postview

import "github.com/fragmede/quill/internal/api"

// Flatten converts nested comments into display order, depth first.
// IsAuthor marks comments written by the post's author.
func Flatten(comments []api.Comment, postAuthor string) []FlatComment {
	var result []FlatComment

	var walk func(c api.Comment, depth int)
	walk = func(c api.Comment, depth int) {
		result = append(result, FlatComment{
			Comment:    c,
			Depth:      depth,
			IsAuthor:   postAuthor != "" && c.Author.Username == postAuthor,
			ReplyCount: len(c.Replies),
		})
		for _, r := range c.Replies {
			walk(r, depth+1)
		}
	}

	for _, c := range comments {
		// Replies are also listed at the top level by some server builds.
		if c.Parent != nil {
			continue
		}
		walk(c, 0)
	}
	return result
}
