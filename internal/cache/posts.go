package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fragmede/quill/internal/api"
)

// GetBoard retrieves the cached listing for a board.
// Returns (posts, isFresh, error). posts is nil on cache miss.
func (d *DB) GetBoard(board api.Board, ttl time.Duration) ([]api.Post, bool, error) {
	row := d.db.QueryRow(`SELECT posts_json, fetched_at FROM board_posts WHERE board = ?`, string(board))

	var postsJSON string
	var fetchedAt int64
	err := row.Scan(&postsJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	posts := []api.Post{}
	if err := json.Unmarshal([]byte(postsJSON), &posts); err != nil {
		return nil, false, err
	}

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return posts, isFresh, nil
}

// PutBoard stores a board listing in the cache.
func (d *DB) PutBoard(board api.Board, posts []api.Post) error {
	if posts == nil {
		posts = []api.Post{}
	}
	postsJSON, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO board_posts (board, posts_json, fetched_at) VALUES (?, ?, ?)`,
		string(board), string(postsJSON), time.Now().Unix())
	return err
}

// GetPost retrieves a cached post. Returns nil on cache miss.
func (d *DB) GetPost(id int, ttl time.Duration) (*api.PostDetail, bool, error) {
	row := d.db.QueryRow(`SELECT body_json, fetched_at FROM post_details WHERE id = ?`, id)

	var body string
	var fetchedAt int64
	err := row.Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var post api.PostDetail
	if err := json.Unmarshal([]byte(body), &post); err != nil {
		return nil, false, err
	}
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &post, isFresh, nil
}

// PutPost stores a post in the cache.
func (d *DB) PutPost(post *api.PostDetail) error {
	body, err := json.Marshal(post)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO post_details (id, body_json, fetched_at) VALUES (?, ?, ?)`,
		post.ID, string(body), time.Now().Unix())
	return err
}
