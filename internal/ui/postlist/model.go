package postlist

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/cache"
	"github.com/fragmede/quill/internal/config"
	"github.com/fragmede/quill/internal/ui/messages"
)

// Model is the board listing view.
type Model struct {
	list    list.Model
	board   api.Board
	client  *api.Client
	cache   *cache.DB
	cfg     config.Config
	loading bool
	width   int
	height  int
}

// New creates a new post list model.
func New(cfg config.Config, client *api.Client, db *cache.DB) Model {
	l := list.New(nil, Delegate{}, 0, 0)
	l.Title = boardTitle(api.BoardTech)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{
		list:   l,
		board:  api.BoardTech,
		client: client,
		cache:  db,
		cfg:    cfg,
	}
}

// Init loads the initial board.
func (m Model) Init() tea.Cmd {
	return m.loadPosts(false)
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// Filtering reports whether the list filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PostsLoadedMsg:
		if msg.Board != m.board {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.list.Title = boardTitle(m.board) + " - error: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Posts))
		for i, p := range msg.Posts {
			items = append(items, PostItem{Post: p, Index: i})
		}
		m.list.SetItems(items)
		m.list.Title = boardTitle(m.board)
		if msg.Stale {
			m.list.Title += " (offline)"
			return m, func() tea.Msg {
				return messages.StatusMsg{Text: "server unreachable, showing cached posts", IsError: true}
			}
		}
		return m, nil

	case messages.SwitchBoardMsg:
		m.board = msg.Board
		m.list.ResetFilter()
		m.list.Title = boardTitle(m.board) + " (loading...)"
		m.loading = true
		return m, m.loadPosts(false)

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(PostItem); ok {
				id := item.ID
				return m, func() tea.Msg {
					return messages.OpenPostMsg{PostID: id}
				}
			}
		case "r", "ctrl+r":
			m.loading = true
			m.list.Title = boardTitle(m.board) + " (refreshing...)"
			return m, m.loadPosts(true)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the post list.
func (m Model) View() string {
	return m.list.View()
}

// Board returns the current board.
func (m Model) Board() api.Board {
	return m.board
}

func (m Model) loadPosts(force bool) tea.Cmd {
	board := m.board
	client := m.client
	db := m.cache
	cfg := m.cfg
	return func() tea.Msg {
		return Load(context.Background(), client, db, cfg, board, force)
	}
}

// Load returns the listing for board, serving a fresh cache entry when one
// exists and falling back to a stale one when the network fails. force
// skips the fresh entry but keeps it as the fallback.
func Load(ctx context.Context, client *api.Client, db *cache.DB, cfg config.Config, board api.Board, force bool) messages.PostsLoadedMsg {
	cached, fresh, err := db.GetBoard(board, cfg.PostListTTL)
	if err != nil {
		log.Printf("read board %s from cache: %v", board, err)
	}
	if !force && fresh && cached != nil {
		return messages.PostsLoadedMsg{Board: board, Posts: cached}
	}

	posts, err := client.BoardPosts(ctx, board)
	if err != nil {
		if cached != nil {
			return messages.PostsLoadedMsg{Board: board, Posts: cached, Stale: true}
		}
		return messages.PostsLoadedMsg{Board: board, Err: err}
	}
	if err := db.PutBoard(board, posts); err != nil {
		log.Printf("cache board %s: %v", board, err)
	}
	return messages.PostsLoadedMsg{Board: board, Posts: posts}
}

func boardTitle(b api.Board) string {
	switch b {
	case api.BoardTech:
		return "Tech"
	case api.BoardFree:
		return "Free board"
	case api.BoardGuestbook:
		return "Guestbook"
	default:
		return "Posts"
	}
}
