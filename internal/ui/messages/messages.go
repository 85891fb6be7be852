package messages

import (
	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/session"
)

// View transition messages.
type (
	OpenPostMsg    struct{ PostID int }
	SwitchBoardMsg struct{ Board api.Board }
)

// Data messages.
type (
	PostsLoadedMsg struct {
		Board api.Board
		Posts []api.Post
		Stale bool
		Err   error
	}

	PostLoadedMsg struct {
		PostID int
		Post   *api.PostDetail
		Err    error
	}

	LoginResultMsg struct {
		Err error
	}

	RegisterResultMsg struct {
		Err error
	}

	LogoutMsg struct{}

	ProfileResultMsg struct {
		Err error
	}

	// SessionChangedMsg is sent whenever the session manager publishes a
	// new state.
	SessionChangedMsg struct {
		State session.State
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
