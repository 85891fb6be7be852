package header

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/render"
	"github.com/fragmede/quill/internal/session"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7C5CFF")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#555555")).
				Foreground(lipgloss.Color("#CCCCCC")).
				Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

type tab struct {
	label string
	board api.Board
}

var tabs = []tab{
	{"Tech", api.BoardTech},
	{"Free", api.BoardFree},
	{"Guestbook", api.BoardGuestbook},
}

// Model is the bar at the bottom of the screen. It reflects the session
// state it was last given.
type Model struct {
	width      int
	board      api.Board
	state      session.State
	expires    time.Time
	statusText string
	statusErr  bool
}

// New creates a new header.
func New() Model {
	return Model{board: api.BoardTech}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetBoard sets the highlighted board tab.
func (m *Model) SetBoard(b api.Board) {
	m.board = b
}

// SetSession records the current session state and, if the credential is
// a JWT, its expiry.
func (m *Model) SetSession(st session.State, claims session.Claims, ok bool) {
	m.state = st
	m.expires = time.Time{}
	if ok && st.Authenticated {
		m.expires = claims.ExpiresAt
	}
}

// SetStatus sets a temporary status message.
func (m *Model) SetStatus(text string, isErr bool) {
	m.statusText = text
	m.statusErr = isErr
}

// Update is a no-op for the header.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// AuthLabel is the text of the login/logout control.
func (m Model) AuthLabel() string {
	if m.state.Authenticated {
		return "LOGOUT (L)"
	}
	return "LOGIN (L)  REGISTER (R)"
}

// View renders the header.
func (m Model) View() string {
	var tabsStr string
	for _, t := range tabs {
		if t.board == m.board {
			tabsStr += activeTabStyle.Render(t.label)
		} else {
			tabsStr += inactiveTabStyle.Render(t.label)
		}
	}

	var right string
	if m.statusText != "" {
		if m.statusErr {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	if m.state.Authenticated {
		name := m.state.Username()
		if name == "" {
			// Profile not loaded yet.
			name = "signed in"
		}
		if !m.expires.IsZero() {
			name += " (" + render.Until(m.expires) + ")"
		}
		right += userStyle.Render(name)
	}
	right += statusTextStyle.Render(m.AuthLabel())

	tabsWidth := lipgloss.Width(tabsStr)
	rightWidth := lipgloss.Width(right)
	gap := m.width - tabsWidth - rightWidth
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, tabsStr, mid, right)
}
