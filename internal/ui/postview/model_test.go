package postview

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
		if r.URL.Path != "/posts/7/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"title":"Hello","html_content":"<p>hi</p>","author":{"username":"ann"},"comments":[]}`))
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

func TestLoadServesFreshCache(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	ctx := context.Background()

	msg := Load(ctx, f.client, f.db, cfg, 7, false)
	if msg.Err != nil || msg.Post == nil || msg.Post.Title != "Hello" {
		t.Fatalf("Load = %+v", msg)
	}

	msg = Load(ctx, f.client, f.db, cfg, 7, false)
	if msg.Err != nil || msg.Post == nil {
		t.Fatalf("cached Load = %+v", msg)
	}
	if got := f.hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestLoadForceFallsBackToCache(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	ctx := context.Background()

	if msg := Load(ctx, f.client, f.db, cfg, 7, false); msg.Err != nil {
		t.Fatalf("Load: %v", msg.Err)
	}
	f.fail.Store(true)

	msg := Load(ctx, f.client, f.db, cfg, 7, true)
	if got := f.hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
	if msg.Err != nil {
		t.Fatalf("forced refresh while offline should serve the cache, got %v", msg.Err)
	}
	if msg.Post == nil || msg.Post.HTMLContent != "<p>hi</p>" {
		t.Errorf("post = %+v", msg.Post)
	}
}

func TestLoadReportsErrorWithoutCache(t *testing.T) {
	f := newFixture(t)
	f.fail.Store(true)

	msg := Load(context.Background(), f.client, f.db, config.Default(), 7, true)
	if msg.Err == nil {
		t.Fatal("expected error with nothing cached")
	}
}
