// Package session owns the client's authentication state: whether a user
// is logged in, who they are, and the bearer credential persisted between
// runs. A single Manager is built at startup and handed to every view
// that needs to read or change the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fragmede/quill/internal/api"
)

// TokenKey is the storage slot holding the bearer credential. It must not
// change between releases or existing sessions are lost.
const TokenKey = "token"

const defaultProfileTimeout = 5 * time.Second

// Store is the durable key/value slot the credential lives in.
type Store interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// Authenticator is the remote API the Manager delegates to.
type Authenticator interface {
	ObtainToken(ctx context.Context, email, password string) (*api.TokenResponse, error)
	Register(ctx context.Context, r api.RegisterRequest) error
	Me(ctx context.Context, token string) (*api.User, error)
}

// Options tune restore behaviour and logging. The zero value is usable.
type Options struct {
	Logger         *log.Logger
	ProfileTimeout time.Duration

	// RestoreProfile fetches the user in the background after a restored
	// session, the same way login does when the token response has no user.
	RestoreProfile bool

	// VerifyOnRestore checks a restored credential against the profile
	// endpoint before trusting it, and drops it when the server refuses it.
	VerifyOnRestore bool

	// Now is used for token expiry checks.
	Now func() time.Time
}

// State is a read-only snapshot of the session.
type State struct {
	Authenticated bool
	User          *api.User
}

// Username returns the known username or "".
func (s State) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// Manager holds the session. It is safe for concurrent use.
type Manager struct {
	auth   Authenticator
	store  Store
	opts   Options
	logger *log.Logger

	// opMu serialises Login, Register and Logout.
	opMu sync.Mutex

	mu    sync.RWMutex
	token string
	user  *api.User
	gen   uint64 // bumped whenever the credential changes

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int

	// notifyMu is held from snapshot to last delivery so subscribers see
	// states in the order they were made.
	notifyMu sync.Mutex

	initOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc

	// bgMu orders wg.Add in enrich against the cancel in Close.
	bgMu sync.Mutex
	wg   sync.WaitGroup
}

// NewManager creates a Manager. Call Init once before use.
func NewManager(auth Authenticator, store Store, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ProfileTimeout <= 0 {
		opts.ProfileTimeout = defaultProfileTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		auth:   auth,
		store:  store,
		opts:   opts,
		logger: opts.Logger,
		subs:   make(map[int]func(State)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Init restores a persisted credential. A stored credential is trusted
// without contacting the server unless VerifyOnRestore is set. Only the
// first call has any effect.
func (m *Manager) Init(ctx context.Context) {
	m.initOnce.Do(func() { m.restore(ctx) })
}

func (m *Manager) restore(ctx context.Context) {
	token, ok, err := m.store.GetValue(ctx, TokenKey)
	if err != nil {
		m.logger.Printf("session: reading stored credential: %v", err)
		return
	}
	if !ok || token == "" {
		return
	}

	var user *api.User
	if m.opts.VerifyOnRestore {
		var keep bool
		user, keep = m.verify(ctx, token)
		if !keep {
			return
		}
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.gen++
	gen := m.gen
	m.mu.Unlock()
	m.logger.Printf("session: restored stored credential")
	m.notify()

	if user == nil && m.opts.RestoreProfile {
		m.enrich(gen, token)
	}
}

// verify decides whether a restored credential is kept. An expired JWT or
// an explicit refusal drops it; network trouble keeps it.
func (m *Manager) verify(ctx context.Context, token string) (*api.User, bool) {
	if c, ok := ParseClaims(token); ok && c.Expired(m.opts.Now()) {
		m.logger.Printf("session: stored credential expired at %s, discarding", c.ExpiresAt.Format(time.RFC3339))
		m.discard(ctx)
		return nil, false
	}
	user, err := m.auth.Me(ctx, token)
	if err == nil {
		return copyUser(user), true
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		m.logger.Printf("session: stored credential refused by server, discarding")
		m.discard(ctx)
		return nil, false
	}
	m.logger.Printf("session: could not verify stored credential, keeping it: %v", err)
	return nil, true
}

func (m *Manager) discard(ctx context.Context) {
	if err := m.store.DeleteValue(ctx, TokenKey); err != nil {
		m.logger.Printf("session: clearing stored credential: %v", err)
	}
}

// Login exchanges credentials for a token and establishes the session.
// On any failure the session is left exactly as it was.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return &AuthError{Kind: KindValidation, Op: "login", Message: "email and password are required"}
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.login(ctx, email, password)
}

func (m *Manager) login(ctx context.Context, email, password string) error {
	m.logger.Printf("session: login attempt for %s", email)
	resp, err := m.auth.ObtainToken(ctx, email, password)
	if err != nil {
		m.logger.Printf("session: login failed for %s: %v", email, err)
		return loginError(err)
	}

	token := resp.AccessToken()
	if token == "" {
		m.logger.Printf("session: login response for %s had no access token", email)
		return &AuthError{Kind: KindRejected, Op: "login", Message: missingToken}
	}

	if err := m.store.SetValue(ctx, TokenKey, token); err != nil {
		return &AuthError{
			Kind:    KindStorage,
			Op:      "login",
			Message: "could not save credential",
			Err:     fmt.Errorf("saving credential: %w", err),
		}
	}

	m.mu.Lock()
	m.token = token
	m.user = copyUser(resp.User)
	m.gen++
	gen := m.gen
	m.mu.Unlock()
	m.logger.Printf("session: logged in as %s", email)
	m.notify()

	if resp.User == nil {
		m.enrich(gen, token)
	}
	return nil
}

// Register creates an account and then logs into it. If the follow-up
// login fails, Register returns that error and no session is created.
func (m *Manager) Register(ctx context.Context, email, password, username string) error {
	if email == "" || password == "" || username == "" {
		return &AuthError{Kind: KindValidation, Op: "register", Message: "email, password and username are required"}
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.logger.Printf("session: register attempt for %s (%s)", email, username)
	err := m.auth.Register(ctx, api.RegisterRequest{Email: email, Password: password, Username: username})
	if err != nil {
		m.logger.Printf("session: register failed for %s: %v", email, err)
		return registerError(err)
	}
	return m.login(ctx, email, password)
}

// Logout forgets the credential in memory and in storage. It always
// succeeds; a storage failure is only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.discard(ctx)

	m.mu.Lock()
	changed := m.token != "" || m.user != nil
	m.token = ""
	m.user = nil
	m.gen++
	m.mu.Unlock()

	if changed {
		m.logger.Printf("session: logged out")
		m.notify()
	}
}

// RefreshProfile fetches the current user in the foreground.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	token, gen := m.token, m.gen
	m.mu.RUnlock()
	if token == "" {
		return &AuthError{Kind: KindRejected, Op: "profile", Message: "not logged in"}
	}

	user, err := m.auth.Me(ctx, token)
	if err != nil {
		return profileError(err)
	}
	if m.adopt(gen, user) {
		m.notify()
	}
	return nil
}

// enrich fetches the profile in the background. Failures are logged and
// dropped; a result for a superseded session is discarded.
func (m *Manager) enrich(gen uint64, token string) {
	m.bgMu.Lock()
	if m.ctx.Err() != nil {
		m.bgMu.Unlock()
		return
	}
	m.wg.Add(1)
	m.bgMu.Unlock()
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(m.ctx, m.opts.ProfileTimeout)
		defer cancel()

		user, err := m.auth.Me(ctx, token)
		if err != nil {
			m.logger.Printf("session: fetching profile: %v", err)
			return
		}
		if m.adopt(gen, user) {
			m.notify()
		}
	}()
}

func (m *Manager) adopt(gen uint64, user *api.User) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.token == "" {
		return false
	}
	m.user = copyUser(user)
	return true
}

// Close stops background profile fetches and waits for them to exit.
func (m *Manager) Close() {
	m.bgMu.Lock()
	m.cancel()
	m.bgMu.Unlock()
	m.wg.Wait()
}

// State returns a snapshot of the session.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{Authenticated: m.token != "", User: copyUser(m.user)}
}

// IsAuthenticated reports whether a credential is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// User returns a copy of the known user, or nil.
func (m *Manager) User() *api.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.user)
}

// Token returns the bearer credential, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Claims returns the unverified claims of the current credential.
func (m *Manager) Claims() (Claims, bool) {
	token := m.Token()
	if token == "" {
		return Claims{}, false
	}
	return ParseClaims(token)
}

// Subscribe registers fn to be called after every state change. fn runs
// on the goroutine that made the change, outside the state lock, and must
// not call Login, Register or Logout. The returned func removes the
// subscription.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify() {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	st := m.State()
	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

func copyUser(u *api.User) *api.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
