// Package services holds the client's long-lived state owners: the session
// store (who is signed in, persisted across restarts) and the theme
// resolver (which tenant palette is applied).
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/motogestor/dashclient/internal/client/client"
	"github.com/motogestor/dashclient/internal/client/models"
	"github.com/motogestor/dashclient/internal/client/repositories/kv"
	"github.com/motogestor/dashclient/internal/logging"
)

// DefaultStorageKey names the single persisted session record.
const DefaultStorageKey = "motogestor_auth"

const genericLoginMessage = "login failed"

// ErrMissingAccessToken is returned when the login call succeeds without a token.
var ErrMissingAccessToken = errors.New("login response has no access token")

type State int

const (
	StateUninitialized State = iota
	StateHydrating
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Identity is a snapshot of the session. Generation grows by one on every
// change, so listeners can tell a superseded identity from the current one.
type Identity struct {
	User       *models.User
	Token      string
	Generation uint64
}

func (i Identity) Authenticated() bool {
	return i.User != nil && i.Token != ""
}

// LoginError is what Login returns. Error() is safe to show to the user;
// the underlying cause is kept for logs.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

func newLoginError(err error) *LoginError {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &LoginError{Message: apiErr.Message, Err: err}
	}
	return &LoginError{Message: genericLoginMessage, Err: err}
}

// SessionStore owns the signed-in user and bearer token. A token is held if
// and only if a user is held; the persisted record follows the same rule.
//
// Listener callbacks run synchronously after each change and must not call
// Login, Logout or Hydrate.
type SessionStore struct {
	api  client.Client
	repo kv.Repository
	key  string
	log  logging.Logger

	// write serialises state changes together with their persistence and
	// notification, so storage and listeners see changes in order.
	write sync.Mutex

	mu      sync.RWMutex
	state   State
	user    *models.User
	token   string
	gen     uint64
	busy    int
	ready   chan struct{}
	readyOn sync.Once
	subs    map[uint64]func(Identity)
	nextSub uint64
}

type SessionOption func(*SessionStore)

func WithStorageKey(key string) SessionOption {
	return func(s *SessionStore) { s.key = key }
}

func WithSessionLogger(l logging.Logger) SessionOption {
	return func(s *SessionStore) { s.log = l }
}

func NewSessionStore(api client.Client, repo kv.Repository, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		api:   api,
		repo:  repo,
		key:   DefaultStorageKey,
		log:   logging.Nop(),
		ready: make(chan struct{}),
		subs:  make(map[uint64]func(Identity)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether hydration or a login is in progress.
func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy > 0 || s.state == StateUninitialized
}

// Ready is closed once the session is known to be anonymous or
// authenticated. Rendering that depends on the session should wait on it.
func (s *SessionStore) Ready() <-chan struct{} {
	return s.ready
}

func (s *SessionStore) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identityLocked()
}

func (s *SessionStore) identityLocked() Identity {
	var u *models.User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return Identity{User: u, Token: s.token, Generation: s.gen}
}

// Subscribe registers fn for identity changes and returns its cancel func.
func (s *SessionStore) Subscribe(fn func(Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Hydrate restores the persisted session. A missing record means anonymous;
// a record that does not decode, or that has only one of user and token, is
// deleted and also means anonymous. Only the first call has an effect.
func (s *SessionStore) Hydrate(ctx context.Context) {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return
	}
	s.state = StateHydrating
	s.busy++
	s.mu.Unlock()

	restored, ok := s.readPersisted(ctx)

	s.mu.Lock()
	s.busy--
	s.gen++
	if ok {
		s.user, s.token, s.state = restored.User, restored.Token, StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
	id := s.identityLocked()
	s.mu.Unlock()

	s.markReady()
	if ok {
		s.log.Info(ctx, "session restored", "user_id", id.User.ID, "tenant_id", id.User.TenantID)
	}
	s.notify(id)
}

func (s *SessionStore) readPersisted(ctx context.Context) (models.PersistedSession, bool) {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.log.Warn(ctx, "session storage unreadable", "key", s.key, "error", err)
		return models.PersistedSession{}, false
	}
	if raw == nil {
		return models.PersistedSession{}, false
	}

	restored, err := models.DecodeSession(raw)
	if err != nil {
		s.log.Warn(ctx, "discarding corrupt session record", "key", s.key, "error", err)
		if err := s.repo.Delete(ctx, s.key); err != nil {
			s.log.Warn(ctx, "failed to delete corrupt session record", "key", s.key, "error", err)
		}
		return models.PersistedSession{}, false
	}
	return restored, true
}

// Login exchanges credentials for a token, then fetches the profile with
// that token. The session changes only after both calls succeed; on any
// failure the previous session is kept and a *LoginError is returned.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.busy++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy--
		s.mu.Unlock()
	}()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "login rejected", "email", email, "error", err, "details", detailsOf(err))
		return newLoginError(err)
	}
	if resp.AccessToken == "" {
		s.log.Warn(ctx, "login rejected", "email", email, "error", ErrMissingAccessToken)
		return newLoginError(ErrMissingAccessToken)
	}

	profile, err := s.api.Me(ctx, resp.AccessToken)
	if err != nil {
		s.log.Warn(ctx, "profile fetch failed after login", "email", email, "error", err, "details", detailsOf(err))
		return newLoginError(err)
	}

	user := resp.User.Merge(profile)

	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	s.user, s.token, s.state = user, resp.AccessToken, StateAuthenticated
	s.gen++
	id := s.identityLocked()
	s.mu.Unlock()

	s.markReady()
	s.persist(ctx, id)
	s.log.Info(ctx, "signed in", "user_id", user.ID, "tenant_id", user.TenantID)
	s.notify(id)
	return nil
}

// Logout forgets the session locally and in storage. It never fails.
func (s *SessionStore) Logout(ctx context.Context) {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	s.user, s.token, s.state = nil, "", StateAnonymous
	s.gen++
	id := s.identityLocked()
	s.mu.Unlock()

	s.markReady()
	s.persist(ctx, id)
	s.log.Info(ctx, "signed out")
	s.notify(id)
}

// persist writes the record when the identity is complete and deletes it
// otherwise. Storage failures are logged; memory stays authoritative.
func (s *SessionStore) persist(ctx context.Context, id Identity) {
	if !id.Authenticated() {
		if err := s.repo.Delete(ctx, s.key); err != nil {
			s.log.Warn(ctx, "failed to delete session record", "key", s.key, "error", err)
		}
		return
	}

	data, err := models.EncodeSession(models.PersistedSession{User: id.User, Token: id.Token})
	if err != nil {
		s.log.Error(ctx, "failed to encode session", "error", err)
		return
	}
	if err := s.repo.Set(ctx, s.key, data); err != nil {
		s.log.Warn(ctx, "failed to persist session", "key", s.key, "error", err)
	}
}

func (s *SessionStore) notify(id Identity) {
	s.mu.RLock()
	fns := make([]func(Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(id)
	}
}

func (s *SessionStore) markReady() {
	s.readyOn.Do(func() { close(s.ready) })
}

func detailsOf(err error) any {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Details
	}
	return nil
}
