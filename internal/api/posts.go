package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

var boardEndpoints = map[Board]string{
	BoardTech:      "/posts/tech/",
	BoardFree:      "/posts/free/",
	BoardGuestbook: "/posts/guestbook/",
}

// Boards lists the boards in display order.
var Boards = []Board{BoardTech, BoardFree, BoardGuestbook}

// BoardPosts fetches the post listing for a board.
func (c *Client) BoardPosts(ctx context.Context, b Board) ([]Post, error) {
	path, ok := boardEndpoints[b]
	if !ok {
		return nil, fmt.Errorf("unknown board: %s", b)
	}
	var posts []Post
	if err := c.do(ctx, c.http, http.MethodGet, path, nil, &posts); err != nil {
		return nil, fmt.Errorf("fetching %s posts: %w", b, err)
	}
	return posts, nil
}

// BatchBoardPosts fetches several boards concurrently. The result is keyed
// by board; boards that failed to load are absent.
func (c *Client) BatchBoardPosts(ctx context.Context, boards []Board) (map[Board][]Post, error) {
	results := make(map[Board][]Post, len(boards))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, b := range boards {
		b := b
		g.Go(func() error {
			posts, err := c.BoardPosts(ctx, b)
			if err != nil {
				// Non-fatal: one board can fail without the others.
				return nil
			}
			mu.Lock()
			results[b] = posts
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Post fetches a single post with its rendered content.
func (c *Client) Post(ctx context.Context, id int) (*PostDetail, error) {
	var post PostDetail
	if err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("/posts/%d/", id), nil, &post); err != nil {
		return nil, fmt.Errorf("fetching post %d: %w", id, err)
	}
	return &post, nil
}
