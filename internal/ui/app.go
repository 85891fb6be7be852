package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/cache"
	"github.com/fragmede/quill/internal/config"
	"github.com/fragmede/quill/internal/session"
	"github.com/fragmede/quill/internal/ui/header"
	"github.com/fragmede/quill/internal/ui/login"
	"github.com/fragmede/quill/internal/ui/messages"
	"github.com/fragmede/quill/internal/ui/postlist"
	"github.com/fragmede/quill/internal/ui/postview"
	"github.com/fragmede/quill/internal/ui/profile"
	"github.com/fragmede/quill/internal/ui/register"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewPostList ViewType = iota
	ViewPost
	ViewLogin
	ViewRegister
	ViewProfile
)

// App is the root Bubble Tea model.
type App struct {
	// View state
	activeView    ViewType
	previousViews []ViewType
	showHelp      bool

	// Child models
	postList     postlist.Model
	postView     postview.Model
	loginForm    login.Model
	registerForm register.Model
	profile      profile.Model
	header       header.Model
	help         help.Model

	// Shared state
	cfg     config.Config
	client  *api.Client
	cache   *cache.DB
	session *session.Manager
	unsub   func()

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model. The session manager should
// already have been initialised.
func NewApp(cfg config.Config, client *api.Client, db *cache.DB, mgr *session.Manager) *App {
	h := help.New()
	h.ShowAll = true

	a := &App{
		activeView: ViewPostList,
		postList:   postlist.New(cfg, client, db),
		header:     header.New(),
		help:       h,
		cfg:        cfg,
		client:     client,
		cache:      db,
		session:    mgr,
	}
	a.syncSession(mgr.State())
	return a
}

// SetProgram subscribes the program to session changes so every view sees
// the same authentication state.
func (a *App) SetProgram(p *tea.Program) {
	if a.unsub != nil {
		a.unsub()
	}
	a.unsub = a.session.Subscribe(func(st session.State) {
		p.Send(messages.SessionChangedMsg{State: st})
	})
}

// Close drops the session subscription.
func (a *App) Close() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	return a.postList.Init()
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for the header.
		a.postList.SetSize(msg.Width, contentHeight)
		a.header.SetSize(msg.Width)
		a.help.Width = msg.Width
		switch a.activeView {
		case ViewPost:
			a.postView.SetSize(msg.Width, contentHeight)
		case ViewLogin:
			a.loginForm.SetSize(msg.Width, contentHeight)
		case ViewRegister:
			a.registerForm.SetSize(msg.Width, contentHeight)
		case ViewProfile:
			a.profile.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		if a.inTextInput() {
			switch msg.String() {
			case "ctrl+c":
				return a, tea.Quit
			case "esc":
				// Leave the list filter to the list itself.
				if a.activeView != ViewPostList {
					return a, a.goBack()
				}
			}
			break
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		switch {
		case msg.String() == "ctrl+c":
			return a, tea.Quit
		case key.Matches(msg, Keys.Quit):
			if a.activeView == ViewPostList {
				return a, tea.Quit
			}
			return a, a.goBack()
		case key.Matches(msg, Keys.Back):
			if len(a.previousViews) > 0 {
				return a, a.goBack()
			}
		case key.Matches(msg, Keys.Help):
			a.showHelp = true
			return a, nil
		case key.Matches(msg, Keys.NextTab):
			return a, a.cycleBoard(1)
		case key.Matches(msg, Keys.PrevTab):
			return a, a.cycleBoard(-1)
		case key.Matches(msg, Keys.Tab1):
			return a, a.switchBoard(api.BoardTech)
		case key.Matches(msg, Keys.Tab2):
			return a, a.switchBoard(api.BoardFree)
		case key.Matches(msg, Keys.Tab3):
			return a, a.switchBoard(api.BoardGuestbook)
		case key.Matches(msg, Keys.Login):
			if a.session.IsAuthenticated() {
				return a, a.logout()
			}
			return a, a.openLogin()
		case key.Matches(msg, Keys.Register):
			if !a.session.IsAuthenticated() {
				return a, a.openRegister()
			}
			return a, nil
		case key.Matches(msg, Keys.Profile):
			if a.activeView == ViewPostList || a.activeView == ViewPost {
				return a, a.openProfile()
			}
		}

	case messages.OpenPostMsg:
		a.pushView(ViewPost)
		a.postView = postview.New(msg.PostID, a.cfg, a.client, a.cache)
		a.postView.SetSize(a.width, a.height-1)
		return a, a.postView.Init()

	case messages.SessionChangedMsg:
		a.syncSession(msg.State)
		if a.activeView == ViewProfile {
			a.profile, _ = a.profile.Update(msg)
		}
		return a, nil

	case messages.LoginResultMsg:
		if msg.Err == nil {
			a.syncSession(a.session.State())
			a.header.SetStatus("Logged in", false)
			if a.activeView == ViewLogin {
				return a, a.goBack()
			}
			return a, nil
		}
		if session.IsKind(msg.Err, session.KindTransport) {
			a.header.SetStatus("Server unreachable", true)
		}
		// Let the login form show the error.

	case messages.RegisterResultMsg:
		if msg.Err == nil {
			a.syncSession(a.session.State())
			a.header.SetStatus("Account created", false)
			if a.activeView == ViewRegister {
				return a, a.goBack()
			}
			return a, nil
		}

	case messages.LogoutMsg:
		a.syncSession(a.session.State())
		a.header.SetStatus("Logged out", false)
		if a.activeView == ViewProfile {
			return a, a.goBack()
		}
		return a, nil

	case messages.StatusMsg:
		a.header.SetStatus(msg.Text, msg.IsError)
		return a, nil
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewPostList:
		a.postList, cmd = a.postList.Update(msg)
		cmds = append(cmds, cmd)
		a.header.SetBoard(a.postList.Board())
	case ViewPost:
		a.postView, cmd = a.postView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewRegister:
		a.registerForm, cmd = a.registerForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewProfile:
		a.profile, cmd = a.profile.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Board listings arrive while other views are active too.
	if loaded, ok := msg.(messages.PostsLoadedMsg); ok && a.activeView != ViewPostList {
		a.postList, cmd = a.postList.Update(loaded)
		cmds = append(cmds, cmd)
	}

	a.header, cmd = a.header.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.activeView {
	case ViewPostList:
		content = a.postList.View()
	case ViewPost:
		content = a.postView.View()
	case ViewLogin:
		content = a.loginForm.View()
	case ViewRegister:
		content = a.registerForm.View()
	case ViewProfile:
		content = a.profile.View()
	}

	if a.showHelp {
		box := HelpStyle.Render(HelpTitleStyle.Render("Keys") + "\n\n" + a.help.View(Keys))
		content = lipgloss.Place(a.width, max(0, a.height-1), lipgloss.Center, lipgloss.Center, box)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.header.View())
}

func (a *App) inTextInput() bool {
	switch a.activeView {
	case ViewLogin, ViewRegister:
		return true
	case ViewPostList:
		return a.postList.Filtering()
	}
	return false
}

func (a *App) syncSession(st session.State) {
	claims, ok := a.session.Claims()
	a.header.SetSession(st, claims, ok)
}

func (a *App) openLogin() tea.Cmd {
	if a.session.IsAuthenticated() {
		return nil
	}
	a.pushView(ViewLogin)
	a.loginForm = login.New(a.session)
	a.loginForm.SetSize(a.width, a.height-1)
	return nil
}

func (a *App) openRegister() tea.Cmd {
	if a.session.IsAuthenticated() {
		return nil
	}
	a.pushView(ViewRegister)
	a.registerForm = register.New(a.session)
	a.registerForm.SetSize(a.width, a.height-1)
	return nil
}

func (a *App) openProfile() tea.Cmd {
	if !a.session.IsAuthenticated() {
		return a.openLogin()
	}
	a.pushView(ViewProfile)
	a.profile = profile.New(a.session)
	a.profile.SetSize(a.width, a.height-1)
	return a.profile.Init()
}

func (a *App) logout() tea.Cmd {
	mgr := a.session
	return func() tea.Msg {
		mgr.Logout(context.Background())
		return messages.LogoutMsg{}
	}
}

func (a *App) pushView(v ViewType) {
	a.previousViews = append(a.previousViews, a.activeView)
	a.activeView = v
}

func (a *App) goBack() tea.Cmd {
	if len(a.previousViews) > 0 {
		a.activeView = a.previousViews[len(a.previousViews)-1]
		a.previousViews = a.previousViews[:len(a.previousViews)-1]
	} else {
		a.activeView = ViewPostList
	}
	return nil
}

func (a *App) cycleBoard(step int) tea.Cmd {
	current := a.postList.Board()
	for i, b := range api.Boards {
		if b == current {
			n := len(api.Boards)
			return a.switchBoard(api.Boards[(i+step+n)%n])
		}
	}
	return a.switchBoard(api.Boards[0])
}

func (a *App) switchBoard(b api.Board) tea.Cmd {
	if a.activeView != ViewPostList {
		a.activeView = ViewPostList
		a.previousViews = nil
	}
	m, cmd := a.postList.Update(messages.SwitchBoardMsg{Board: b})
	a.postList = m
	a.header.SetBoard(b)
	return cmd
}
