package auth

import (
	"context"
	"sync"

	"github.com/stockr-hq/stockr-cli/internal/keyring"
)

// Identity represents a signed-in user. Its short-lived ID token is obtained
// lazily from the identity provider and cached in memory and on disk.
type Identity struct {
	UserID string

	refreshToken string
	authBaseURL  string
	cachePath    string

	mu     sync.Mutex
	cached *Token
}

// NewIdentity creates an identity backed by the given refresh token.
func NewIdentity(userID, refreshToken, authBaseURL, cachePath string) *Identity {
	return &Identity{
		UserID:       userID,
		refreshToken: refreshToken,
		authBaseURL:  authBaseURL,
		cachePath:    cachePath,
	}
}

// IDToken returns the identity's current short-lived credential, exchanging
// the refresh token when no valid cached token exists.
func (i *Identity) IDToken(ctx context.Context) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cached != nil && i.cached.IsValid() {
		return i.cached.IDToken, nil
	}

	if i.cachePath != "" {
		if token, err := LoadToken(i.cachePath); err == nil && token.IsValid() {
			i.cached = token
			return token.IDToken, nil
		}
	}

	token, err := Exchange(ctx, i.authBaseURL, i.refreshToken)
	if err != nil {
		return "", err
	}
	i.cached = token

	// Cache the new token (ignore save errors - token is still usable)
	if i.cachePath != "" {
		_ = SaveToken(i.cachePath, token)
	}

	return token.IDToken, nil
}

// Session holds process-wide authentication state. It starts uninitialized;
// the first SignIn or SignOut publishes the initial state. Listeners
// registered after initialization observe the current state immediately.
type Session struct {
	mu          sync.Mutex
	initialized bool
	identity    *Identity
	listeners   map[int]func(*Identity)
	nextID      int
}

// NewSession creates an uninitialized session.
func NewSession() *Session {
	return &Session{
		listeners: make(map[int]func(*Identity)),
	}
}

// OnChange registers a listener for auth-state notifications. If the session
// is already initialized, the listener fires immediately with the current
// identity. The returned function deregisters the listener; calling it more
// than once is harmless.
func (s *Session) OnChange(fn func(*Identity)) (remove func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	replay := s.initialized
	current := s.identity
	s.mu.Unlock()

	if replay {
		fn(current)
	}

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignIn publishes the given identity as the current auth state.
func (s *Session) SignIn(identity *Identity) {
	s.notify(identity)
}

// SignOut publishes a signed-out auth state.
func (s *Session) SignOut() {
	s.notify(nil)
}

// Current returns the current identity and whether the session has been
// initialized yet.
func (s *Session) Current() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.initialized
}

func (s *Session) notify(identity *Identity) {
	s.mu.Lock()
	s.initialized = true
	s.identity = identity
	fns := make([]func(*Identity), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Invoke outside the lock so listeners may deregister themselves.
	for _, fn := range fns {
		fn(identity)
	}
}

// WaitToken waits for exactly one auth-state notification (which may be the
// replayed current state), then returns the identity's short-lived credential,
// or "" when no identity is signed in. The listener is always deregistered
// before returning.
func (s *Session) WaitToken(ctx context.Context) (string, error) {
	ch := make(chan *Identity, 1)
	var once sync.Once
	remove := s.OnChange(func(identity *Identity) {
		once.Do(func() { ch <- identity })
	})
	defer remove()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case identity := <-ch:
		if identity == nil {
			return "", nil
		}
		return identity.IDToken(ctx)
	}
}

// Token implements the API client's token source on top of WaitToken.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.WaitToken(ctx)
}

// Bootstrap loads the stored refresh token and publishes the resulting auth
// state: signed in when a credential exists, signed out otherwise. Intended to
// run asynchronously at startup.
func (s *Session) Bootstrap(store keyring.Store, authBaseURL string) {
	secret, err := store.Get(keyring.ServiceName, keyring.KeyRefreshToken)
	if err != nil || secret == "" {
		s.SignOut()
		return
	}
	s.SignIn(NewIdentity("", secret, authBaseURL, TokenCachePath()))
}

func (s *Session) listenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
