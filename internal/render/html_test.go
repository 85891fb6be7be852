package render

import (
	"testing"
	"time"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"empty", "", 80, ""},
		{"paragraphs", "<p>Hello <em>world</em></p><p>Second</p>", 0, "Hello *world*\n\nSecond"},
		{"heading and list", "<h2>Intro</h2>\n<ul>\n<li>one</li>\n<li>two</li>\n</ul>", 0, "## Intro\n\n- one\n- two"},
		{"code block", "<p>Code:</p><pre><code>x := 1\n</code></pre>", 40, "Code:\n\n    x := 1"},
		{"inline code", "<p>run <code>go test</code> now</p>", 0, "run `go test` now"},
		{"link", `<p>see <a href="https://go.dev">docs</a> now</p>`, 0, "see docs [https://go.dev] now"},
		{"bare link", `<p><a href="https://go.dev">https://go.dev</a></p>`, 0, "https://go.dev"},
		{"entities", "<p>a &lt;b&gt; &amp; c</p>", 0, "a <b> & c"},
		{"wrap", "<p>aaa bbb ccc</p>", 7, "aaa bbb\nccc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.in, tt.width); got != tt.want {
				t.Errorf("HTMLToText(%q) =\n%q\nwant\n%q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("short", 200); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Excerpt("héllo wörld", 5); got != "héllo..." {
		t.Errorf("got %q", got)
	}
	if got := Excerpt("a\n\n  b", 10); got != "a b" {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-90 * time.Second), "1 minute ago"},
		{now.Add(-2*time.Hour - time.Minute), "2 hours ago"},
		{now.Add(-3*24*time.Hour - time.Minute), "3 days ago"},
	}
	for _, tt := range tests {
		if got := TimeAgo(tt.in); got != tt.want {
			t.Errorf("TimeAgo(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUntil(t *testing.T) {
	if got := Until(time.Now().Add(-time.Second)); got != "expired" {
		t.Errorf("past = %q", got)
	}
	if got := Until(time.Now().Add(3*time.Hour + 30*time.Minute)); got != "3h" {
		t.Errorf("3h30m = %q", got)
	}
	if got := Until(time.Now().Add(72*time.Hour + time.Minute)); got != "3d" {
		t.Errorf("72h = %q", got)
	}
}
