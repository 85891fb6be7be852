package postlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/cache"
	"github.com/fragmede/quill/internal/config"
)

type fixture struct {
	client *api.Client
	db     *cache.DB
	fail   atomic.Bool
	hits   atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if f.fail.Load() {
			http.Error(w, `{"detail":"down"}`, http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path != "/posts/tech/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"title":"Hello","content":"body","author":{"username":"ann"}}]`))
	}))
	t.Cleanup(srv.Close)

	db, err := cache.Open(filepath.Join(t.TempDir(), "posts.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f.client = api.NewClient(srv.URL, 2*time.Second)
	f.db = db
	return f
}

func TestLoadCachesListing(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	ctx := context.Background()

	msg := Load(ctx, f.client, f.db, cfg, api.BoardTech, false)
	if msg.Err != nil {
		t.Fatalf("Load: %v", msg.Err)
	}
	if len(msg.Posts) != 1 || msg.Posts[0].Author.Username != "ann" {
		t.Fatalf("posts = %+v", msg.Posts)
	}

	f.fail.Store(true)
	msg = Load(ctx, f.client, f.db, cfg, api.BoardTech, false)
	if msg.Err != nil || msg.Stale || len(msg.Posts) != 1 {
		t.Errorf("fresh cache hit = %+v", msg)
	}
	if got := f.hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestLoadFallsBackToStaleCache(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	cfg.PostListTTL = 0
	ctx := context.Background()

	if msg := Load(ctx, f.client, f.db, cfg, api.BoardTech, false); msg.Err != nil {
		t.Fatalf("Load: %v", msg.Err)
	}

	f.fail.Store(true)
	msg := Load(ctx, f.client, f.db, cfg, api.BoardTech, false)
	if msg.Err != nil {
		t.Fatalf("expected stale listing, got %v", msg.Err)
	}
	if !msg.Stale || len(msg.Posts) != 1 {
		t.Errorf("msg = %+v", msg)
	}
}

func TestLoadForceRefetches(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	ctx := context.Background()

	Load(ctx, f.client, f.db, cfg, api.BoardTech, false)
	f.fail.Store(true)

	msg := Load(ctx, f.client, f.db, cfg, api.BoardTech, true)
	if got := f.hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
	if msg.Err != nil {
		t.Fatalf("forced refresh while offline should serve the cache, got %v", msg.Err)
	}
	if !msg.Stale || len(msg.Posts) != 1 {
		t.Errorf("msg = %+v", msg)
	}

	// The failed refresh must not have emptied the cache.
	msg = Load(ctx, f.client, f.db, cfg, api.BoardTech, false)
	if msg.Err != nil || len(msg.Posts) != 1 {
		t.Errorf("after failed refresh = %+v", msg)
	}
}

func TestLoadForceWithoutCacheReportsError(t *testing.T) {
	f := newFixture(t)
	f.fail.Store(true)

	msg := Load(context.Background(), f.client, f.db, config.Default(), api.BoardTech, true)
	if msg.Err == nil {
		t.Fatal("expected error with nothing cached")
	}
}
