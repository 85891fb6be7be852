package register

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quill/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C5CFF")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Width(10)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// Session is the part of the session manager the form needs.
type Session interface {
	Register(ctx context.Context, email, password, username string) error
}

type field int

const (
	fieldUsername field = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// Model is the sign-up form.
type Model struct {
	usernameInput textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	focused       field
	session       Session
	err           string
	submitting    bool
	width         int
	height        int
}

// New creates a new sign-up form.
func New(session Session) Model {
	un := textinput.New()
	un.Placeholder = "username"
	un.Focus()
	un.CharLimit = 150
	un.Width = 40

	em := textinput.New()
	em.Placeholder = "you@example.com"
	em.CharLimit = 254
	em.Width = 40

	pw := textinput.New()
	pw.Placeholder = "password"
	pw.EchoMode = textinput.EchoPassword
	pw.CharLimit = 128
	pw.Width = 40

	return Model{
		usernameInput: un,
		emailInput:    em,
		passwordInput: pw,
		focused:       fieldUsername,
		session:       session,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	fw := w - 14
	if fw > 60 {
		fw = 60
	}
	m.usernameInput.Width = fw
	m.emailInput.Width = fw
	m.passwordInput.Width = fw
}

// Err returns the message currently shown under the form.
func (m Model) Err() string {
	return m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m.focused = (m.focused + 1) % fieldCount
			return m, m.updateFocus()
		case "shift+tab":
			m.focused = (m.focused + fieldCount - 1) % fieldCount
			return m, m.updateFocus()
		case "enter":
			if m.focused != fieldPassword {
				m.focused++
				return m, m.updateFocus()
			}
			return m.submit()
		case "ctrl+s":
			return m.submit()
		}

	case messages.RegisterResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focused {
	case fieldUsername:
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	case fieldEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case fieldPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	username := strings.TrimSpace(m.usernameInput.Value())
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if username == "" || email == "" || password == "" {
		m.err = "Username, email and password are required"
		return m, nil
	}
	m.submitting = true
	m.err = ""
	session := m.session
	return m, func() tea.Msg {
		return messages.RegisterResultMsg{Err: session.Register(context.Background(), email, password, username)}
	}
}

func (m *Model) updateFocus() tea.Cmd {
	m.usernameInput.Blur()
	m.emailInput.Blur()
	m.passwordInput.Blur()
	switch m.focused {
	case fieldUsername:
		return m.usernameInput.Focus()
	case fieldEmail:
		return m.emailInput.Focus()
	case fieldPassword:
		return m.passwordInput.Focus()
	}
	return nil
}

// View renders the sign-up form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Create account"))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("username") + " " + m.usernameInput.View())
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("email") + " " + m.emailInput.View())
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("password") + " " + m.passwordInput.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n")
	}

	if m.submitting {
		sb.WriteString("Creating account...")
	} else {
		sb.WriteString(hintStyle.Render("Tab to switch fields | Enter on password to submit | Esc to cancel"))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}
