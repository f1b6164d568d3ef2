// Package session holds the authenticated identity and token for the
// current user, persisted against durable storage so a restart does not log
// the user out. All mutations go through Login, Register, Logout and
// Invalidate; nothing else writes the token or identity.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/notify"
	"github.com/minimall/storefront-client/internal/storage"
)

// Poster is the slice of the HTTP client the store needs. Declared here so
// the construction cycle (client needs a token source, store needs a
// client) is broken at the interface, not with a shared global.
type Poster interface {
	Post(ctx context.Context, path string, body any, out any) error
}

// Store is the process-wide session state.
type Store struct {
	mu       sync.RWMutex
	token    string
	identity domain.Identity

	st       storage.Store
	api      Poster
	notifier notify.Notifier
	log      zerolog.Logger
}

// New creates a Store and hydrates it from durable storage. Hydration
// happens exactly once, before any navigation or request can observe the
// session. Wire the HTTP client afterwards with UseClient.
func New(ctx context.Context, st storage.Store, n notify.Notifier, log zerolog.Logger) *Store {
	s := &Store{st: st, notifier: n, log: log}
	s.hydrate(ctx)
	return s
}

// UseClient attaches the request pipeline the auth operations go through.
func (s *Store) UseClient(p Poster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = p
}

// hydrate restores token and identity from storage. The two are a unit: if
// either is missing or unreadable the session starts unauthenticated.
func (s *Store) hydrate(ctx context.Context) {
	token, err := s.st.Get(ctx, storage.KeyToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: storage unreadable, starting unauthenticated")
		return
	}
	rawUser, err := s.st.Get(ctx, storage.KeyUser)
	if err != nil || token == "" || rawUser == "" {
		return
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(rawUser), &id); err != nil {
		s.log.Warn().Err(err).Msg("session: stored identity corrupt, starting unauthenticated")
		return
	}

	s.token = token
	s.identity = id
	s.log.Debug().Str("username", id.Username).Stringer("role", id.Role).Msg("session restored")
}

// Login authenticates against the backend and, on success, atomically
// replaces token and identity and persists both. A failed login leaves the
// existing session untouched.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	var res domain.LoginResult
	if err := s.api.Post(ctx, "/auth/login", creds, &res); err != nil {
		return domain.Identity{}, err
	}

	id := res.Identity()
	s.mu.Lock()
	s.token = res.Token
	s.identity = id
	s.mu.Unlock()

	s.persist(ctx, res.Token, id)
	s.log.Info().Str("username", id.Username).Stringer("role", id.Role).Msg("logged in")
	return id, nil
}

// Register creates an account by username. Fire and forget: success leaves
// any existing session untouched, failure propagates.
func (s *Store) Register(ctx context.Context, payload domain.RegisterPayload) error {
	return s.api.Post(ctx, "/auth/register", payload, nil)
}

// RegisterByEmail creates an account keyed by email address.
func (s *Store) RegisterByEmail(ctx context.Context, payload domain.EmailRegisterPayload) error {
	return s.api.Post(ctx, "/auth/register/email", payload, nil)
}

// Logout clears the session and all durable storage, shop context included.
// Destructive, idempotent, no error path.
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx)
	s.notifier.Success("logged out")
}

// Invalidate is the forced-teardown path the HTTP layer triggers on a
// 401/403 response. Same clearing as Logout without the confirmation; the
// transport layer has already surfaced the session-expired notice.
func (s *Store) Invalidate(ctx context.Context) {
	s.clear(ctx)
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.identity = domain.Identity{}
	s.mu.Unlock()

	if err := s.st.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("session: storage clear failed")
	}
}

// persist writes both halves of the session. Storage trouble is logged, not
// fatal: the in-memory session stays usable for the process lifetime.
func (s *Store) persist(ctx context.Context, token string, id domain.Identity) {
	rawUser, err := json.Marshal(id)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: encode identity failed")
		return
	}
	if err := s.st.Set(ctx, storage.KeyToken, token); err != nil {
		s.log.Warn().Err(err).Msg("session: persist token failed")
		return
	}
	if err := s.st.Set(ctx, storage.KeyUser, string(rawUser)); err != nil {
		s.log.Warn().Err(err).Msg("session: persist identity failed")
	}
}

// Token implements the transport token source. Empty = unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the current user, zero-valued when unauthenticated.
func (s *Store) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Role returns the session's role, RoleNone when unauthenticated.
func (s *Store) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return domain.RoleNone
	}
	return s.identity.Role
}
