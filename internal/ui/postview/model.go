package postview

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/cache"
	"github.com/fragmede/quill/internal/config"
	"github.com/fragmede/quill/internal/render"
	"github.com/fragmede/quill/internal/ui/messages"
)

var (
	depthColors = []lipgloss.Color{
		"#7C5CFF", "#828282", "#00BFFF", "#32CD32", "#FFD700", "#FF69B4",
	}

	commentAuthorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C5CFF")).Bold(true)
	commentMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	authorBadgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#000")).Background(lipgloss.Color("#7C5CFF")).Bold(true)
	postHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	postMetaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 1)
	separatorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

// Model is the post detail view: the rendered body followed by comments.
type Model struct {
	viewport viewport.Model
	postID   int
	post     *api.PostDetail
	comments []FlatComment
	client   *api.Client
	cache    *cache.DB
	cfg      config.Config
	loading  bool
	width    int
	height   int
}

// New creates a new post view.
func New(postID int, cfg config.Config, client *api.Client, db *cache.DB) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")

	return Model{
		viewport: vp,
		postID:   postID,
		client:   client,
		cache:    db,
		cfg:      cfg,
		loading:  true,
	}
}

// Init loads the post.
func (m Model) Init() tea.Cmd {
	return m.loadPost(false)
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) resizeViewport() {
	headerLines := strings.Count(m.renderHeader(), "\n") + 1
	m.viewport.Height = m.height - headerLines
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PostLoadedMsg:
		if msg.PostID != m.postID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent("Error loading post: " + msg.Err.Error())
			return m, nil
		}
		m.post = msg.Post
		m.comments = Flatten(m.post.Comments, m.post.Author.Username)
		m.resizeViewport()
		m.rebuildContent()
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		case "ctrl+d", "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "ctrl+u", "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "ctrl+r":
			m.loading = true
			m.viewport.SetContent("  Refreshing...")
			return m, m.loadPost(true)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the post view.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View())
}

// Post returns the loaded post, or nil.
func (m Model) Post() *api.PostDetail {
	return m.post
}

func (m Model) loadPost(force bool) tea.Cmd {
	id := m.postID
	client := m.client
	db := m.cache
	cfg := m.cfg
	return func() tea.Msg {
		return Load(context.Background(), client, db, cfg, id, force)
	}
}

// Load returns the post, preferring a fresh cache entry and falling back to
// a stale one when the network fails. force skips the fresh entry but keeps
// it as the fallback.
func Load(ctx context.Context, client *api.Client, db *cache.DB, cfg config.Config, id int, force bool) messages.PostLoadedMsg {
	cached, fresh, err := db.GetPost(id, cfg.PostTTL)
	if err != nil {
		log.Printf("read post %d from cache: %v", id, err)
	}
	if !force && fresh && cached != nil {
		return messages.PostLoadedMsg{PostID: id, Post: cached}
	}

	post, err := client.Post(ctx, id)
	if err != nil {
		if cached != nil {
			return messages.PostLoadedMsg{PostID: id, Post: cached}
		}
		return messages.PostLoadedMsg{PostID: id, Err: err}
	}
	if err := db.PutPost(post); err != nil {
		log.Printf("cache post %d: %v", id, err)
	}
	return messages.PostLoadedMsg{PostID: id, Post: post}
}

func (m *Model) rebuildContent() {
	if m.post == nil {
		if m.loading {
			m.viewport.SetContent("  Loading...")
		}
		return
	}

	availWidth := m.width - 4
	if availWidth < 20 {
		availWidth = 20
	}

	var sb strings.Builder
	// Older posts have no rendered body.
	text := render.HTMLToText(m.post.HTMLContent, availWidth)
	if text == "" {
		text = render.Wrap(m.post.Content, availWidth)
	}
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(separatorStyle.Render(strings.Repeat("─", max(0, m.width))))
	sb.WriteString("\n\n")

	if len(m.comments) == 0 {
		sb.WriteString("  No comments yet.\n")
		m.viewport.SetContent(sb.String())
		return
	}

	for _, fc := range m.comments {
		indent := min(fc.Depth*2, 30)
		indentStr := strings.Repeat(" ", indent)
		bar := lipgloss.NewStyle().Foreground(depthColors[fc.Depth%len(depthColors)]).Render("│")

		header := commentAuthorStyle.Render(fc.Comment.Author.Username)
		header += " " + commentMetaStyle.Render(render.TimeAgo(fc.Comment.CreatedAt))
		if fc.IsAuthor {
			header += " " + authorBadgeStyle.Render(" author ")
		}
		if fc.ReplyCount > 0 {
			header += " " + commentMetaStyle.Render(fmt.Sprintf("[%d]", fc.ReplyCount))
		}
		sb.WriteString(indentStr + bar + " " + header + "\n")

		bodyWidth := max(20, availWidth-indent-4)
		for _, line := range strings.Split(render.Wrap(fc.Comment.Content, bodyWidth), "\n") {
			sb.WriteString(indentStr + bar + " " + line + "\n")
		}
		sb.WriteString("\n")
	}

	m.viewport.SetContent(sb.String())
}

func (m Model) renderHeader() string {
	if m.post == nil {
		return postHeaderStyle.Render("Loading...")
	}
	meta := fmt.Sprintf("by %s | %s | %d likes | %d comments",
		m.post.Author.Username, render.Date(m.post.CreatedAt), m.post.LikeCount, len(m.comments))
	if m.post.Category != "" {
		meta += " | " + m.post.Category
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		postHeaderStyle.Render(m.post.Title),
		postMetaStyle.Render(meta),
	)
}
