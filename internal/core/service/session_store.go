package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/tasklio/tasklio-go/internal/core/domain"
	"github.com/tasklio/tasklio-go/internal/core/ports"
	"github.com/tasklio/tasklio-go/internal/pubsub"
)

// SessionState is the immutable snapshot published to session observers.
type SessionState struct {
	LoggedIn      bool
	Bootstrapping bool
	Loading       bool
	User          *domain.User
	// ErrorMessage holds the last failure; each new failure overwrites it.
	ErrorMessage string
	// RegisterSuccess holds the ack message of a successful registration
	// until ClearRegisterSuccess is called.
	RegisterSuccess string
}

// SessionStore owns the authentication state machine: bootstrap from a
// persisted token, login, register, logout. It is the single writer of the
// token store. Operations are serialized per store, so they complete in call
// order; state snapshots go out synchronously to subscribers after every
// change.
type SessionStore struct {
	api    ports.AuthAPI
	tokens ports.TokenStore
	log    zerolog.Logger

	opMu   sync.Mutex
	mu     sync.Mutex
	state  SessionState
	topic  pubsub.Topic[SessionState]
	flight *inflight
}

// NewSessionStore builds the store. When a token is already persisted, the
// initial state is Bootstrapping and the composition root is expected to call
// Bootstrap; otherwise the store starts logged out.
func NewSessionStore(api ports.AuthAPI, tokens ports.TokenStore, log zerolog.Logger) *SessionStore {
	s := &SessionStore{
		api:    api,
		tokens: tokens,
		log:    log,
		flight: newInflight(),
	}
	if token, err := tokens.Load(context.Background()); err == nil && token != "" {
		s.state.Bootstrapping = true
	}
	return s
}

// Subscribe registers an observer of session state. The returned cancel
// function removes it.
func (s *SessionStore) Subscribe(fn func(SessionState)) (cancel func()) {
	return s.topic.Subscribe(fn)
}

// State returns the current snapshot.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Bootstrap restores a persisted session: it fetches the profile for the
// stored token and enters the logged-in state on success. On any failure the
// token is cleared and the store lands logged out. A token whose exp claim
// already passed is cleared locally without a network round-trip.
func (s *SessionStore) Bootstrap(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token, err := s.tokens.Load(ctx)
	if err != nil || token == "" {
		s.reset()
		return err
	}

	if tokenExpired(token, time.Now()) {
		s.log.Info().Msg("persisted session expired, clearing")
		_ = s.tokens.Clear(ctx)
		s.reset()
		return nil
	}

	cctx, done := s.flight.start(ctx)
	defer done()

	user, err := s.api.Profile(cctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session bootstrap failed")
		_ = s.tokens.Clear(context.WithoutCancel(ctx))
		s.reset()
		return err
	}

	s.update(func(st *SessionState) {
		st.LoggedIn = true
		st.Bootstrapping = false
		st.User = user
		st.ErrorMessage = ""
	})
	s.log.Info().Str("username", user.Username).Msg("session restored")
	return nil
}

// Login authenticates, persists the token, and enters the logged-in state.
// On failure the error message is published and the store stays logged out.
func (s *SessionStore) Login(ctx context.Context, username, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.update(func(st *SessionState) { st.Loading = true })

	cctx, done := s.flight.start(ctx)
	defer done()

	session, err := s.api.Login(cctx, username, password)
	if err != nil {
		s.update(func(st *SessionState) {
			st.Loading = false
			st.LoggedIn = false
			st.ErrorMessage = err.Error()
		})
		return err
	}

	if err := s.tokens.Save(context.WithoutCancel(ctx), session.Token); err != nil {
		// The in-memory session stays valid; only restart survival is lost.
		s.log.Error().Err(err).Msg("failed to persist session token")
	}

	user := session.User
	s.update(func(st *SessionState) {
		st.Loading = false
		st.LoggedIn = true
		st.User = &user
		st.ErrorMessage = ""
	})
	s.log.Info().Str("username", user.Username).Msg("logged in")
	return nil
}

// Register creates an account. Success publishes the backend's ack message;
// it does not log the user in.
func (s *SessionStore) Register(ctx context.Context, username, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.update(func(st *SessionState) { st.Loading = true })

	cctx, done := s.flight.start(ctx)
	defer done()

	msg, err := s.api.Register(cctx, username, email, password)
	if err != nil {
		s.update(func(st *SessionState) {
			st.Loading = false
			st.ErrorMessage = err.Error()
		})
		return err
	}

	if msg == "" {
		msg = "registration successful"
	}
	s.update(func(st *SessionState) {
		st.Loading = false
		st.ErrorMessage = ""
		st.RegisterSuccess = msg
	})
	return nil
}

// Logout clears the persisted token and returns the store to its initial
// logged-out shape. No network call is made.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	err := s.tokens.Clear(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to clear persisted token")
	}
	s.reset()
	return err
}

// ClearRegisterSuccess clears the registration ack message only.
func (s *SessionStore) ClearRegisterSuccess() {
	s.update(func(st *SessionState) { st.RegisterSuccess = "" })
}

// Close cancels all in-flight requests. The store must not be used after.
func (s *SessionStore) Close() {
	s.flight.close()
}

// reset publishes the logged-out defaults.
func (s *SessionStore) reset() {
	s.update(func(st *SessionState) { *st = SessionState{} })
}

func (s *SessionStore) update(mutate func(*SessionState)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	s.mu.Unlock()
	s.topic.Publish(snapshot)
}

// tokenExpired reports whether the JWT's exp claim is in the past. The
// signature is not verified — only the backend can do that — and tokens that
// do not parse or carry no exp are left for the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
