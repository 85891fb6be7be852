package profile

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quill/internal/render"
	"github.com/fragmede/quill/internal/session"
	"github.com/fragmede/quill/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C5CFF")).Bold(true).Padding(1, 0)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	bioStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Padding(1, 0)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Session is the part of the session manager the profile view needs.
type Session interface {
	State() session.State
	Claims() (session.Claims, bool)
	RefreshProfile(ctx context.Context) error
}

// Model shows the signed-in user's profile.
type Model struct {
	session Session
	state   session.State
	loading bool
	err     string
	width   int
	height  int
}

// New creates a profile view.
func New(s Session) Model {
	return Model{session: s, state: s.State()}
}

// Init loads the profile if the session does not hold one yet.
func (m *Model) Init() tea.Cmd {
	if m.state.Authenticated && m.state.User == nil {
		return m.reload()
	}
	return nil
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SessionChangedMsg:
		m.state = msg.State
	case messages.ProfileResultMsg:
		m.loading = false
		m.err = ""
		if msg.Err != nil {
			m.err = msg.Err.Error()
		}
		m.state = m.session.State()
	case tea.KeyMsg:
		if msg.String() == "r" && m.state.Authenticated && !m.loading {
			return m, m.reload()
		}
	}
	return m, nil
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	m.err = ""
	s := m.session
	return func() tea.Msg {
		return messages.ProfileResultMsg{Err: s.RefreshProfile(context.Background())}
	}
}

// View renders the profile.
func (m Model) View() string {
	if !m.state.Authenticated {
		return titleStyle.Render("Not signed in. Press L to log in.")
	}

	var sb strings.Builder
	u := m.state.User
	switch {
	case u != nil:
		sb.WriteString(titleStyle.Render(u.Username))
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Email: ") + valueStyle.Render(u.Email))
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Joined: ") + valueStyle.Render(render.Date(u.CreatedAt)))
		sb.WriteString("\n")
		if u.ID != 0 {
			sb.WriteString(labelStyle.Render("ID: ") + valueStyle.Render(fmt.Sprintf("%d", u.ID)))
			sb.WriteString("\n")
		}
		if u.Bio != "" {
			sb.WriteString(bioStyle.Render(render.Wrap(u.Bio, max(20, m.width-4))))
			sb.WriteString("\n")
		}
	case m.loading:
		sb.WriteString(titleStyle.Render("Loading profile..."))
		sb.WriteString("\n")
	default:
		sb.WriteString(titleStyle.Render("Signed in"))
		sb.WriteString("\n")
	}

	if c, ok := m.session.Claims(); ok && !c.ExpiresAt.IsZero() {
		sb.WriteString(labelStyle.Render("Session expires in: ") + valueStyle.Render(render.Until(c.ExpiresAt)))
		sb.WriteString("\n")
	}

	if m.err != "" {
		sb.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}
	sb.WriteString("\n" + hintStyle.Render("r to reload, Esc to go back"))
	return sb.String()
}
