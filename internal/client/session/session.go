// Package session owns the client's authentication state: whether a user is
// logged in, who they are, and the transitions between those states.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ontrackhq/ontrack/internal/client/api"
	"github.com/ontrackhq/ontrack/internal/client/token"
	"github.com/ontrackhq/ontrack/internal/logging"
)

// State is the authentication state of the session.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session derives its authenticated/anonymous state from credential presence
// plus a successful profile fetch, and owns the login/logout transitions.
// It is safe for concurrent use.
type Session struct {
	api    api.Client
	tokens token.Store
	log    logging.Logger

	mu      sync.RWMutex
	state   State
	profile *api.UserProfile
	userID  string
}

func New(client api.Client, tokens token.Store, log logging.Logger) *Session {
	return &Session{
		api:    client,
		tokens: tokens,
		log:    log.With("component", "session"),
		state:  StateAnonymous,
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the profile snapshot of the authenticated user.
// The second return is false while the session is not authenticated.
func (s *Session) Current() (api.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.profile == nil {
		return api.UserProfile{}, false
	}
	return *s.profile, true
}

// UserID returns the identity claim carried by the credential. Valid only
// while authenticated.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Restore re-derives the session from a previously stored credential.
// Called once at startup. A rejected credential is cleared so the next start
// comes up cleanly anonymous.
func (s *Session) Restore(ctx context.Context) error {
	tok, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading stored credential: %w", err)
	}
	if tok == "" {
		return nil
	}

	profile, err := s.api.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.log.Info(ctx, "stored credential rejected, clearing")
			_ = s.tokens.Clear(ctx)
			return nil
		}
		return fmt.Errorf("restoring session: %w", err)
	}

	s.establish(tok, profile)
	s.log.Info(ctx, "session restored", "user", profile.Nickname)
	return nil
}

// Login authenticates against the backend. On success the credential is
// already persisted by the transport; the session becomes authenticated only
// after the follow-up profile fetch also succeeds.
func (s *Session) Login(ctx context.Context, email string, password []byte) error {
	s.setState(StateAuthenticating)

	if err := s.api.Login(ctx, email, string(password)); err != nil {
		s.reset()
		return err
	}

	profile, err := s.api.Profile(ctx)
	if err != nil {
		_ = s.tokens.Clear(ctx)
		s.reset()
		return fmt.Errorf("fetching profile after login: %w", err)
	}

	tok, err := s.tokens.Token(ctx)
	if err != nil {
		s.reset()
		return fmt.Errorf("reading stored credential: %w", err)
	}

	s.establish(tok, profile)
	s.log.Info(ctx, "logged in", "user", profile.Nickname)
	return nil
}

// Register creates an account. The user logs in explicitly afterwards.
func (s *Session) Register(ctx context.Context, email string, password []byte, nickname string) error {
	return s.api.Register(ctx, email, string(password), nickname)
}

// Logout clears the credential and returns the session to anonymous.
// It never fails: clearing local state is best-effort by contract.
func (s *Session) Logout(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn(ctx, "clearing credential failed", "error", err)
	}
	s.reset()
	s.log.Info(ctx, "logged out")
}

// Invalidate drops the authenticated state after the transport reported an
// irrecoverable authorization failure mid-session.
func (s *Session) Invalidate(ctx context.Context) {
	_ = s.tokens.Clear(ctx)
	s.reset()
}

func (s *Session) establish(tok string, profile api.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.profile = &profile
	s.userID = subjectClaim(tok)
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.profile = nil
	s.userID = ""
}

// subjectClaim extracts the subject from a JWT without verifying it. The
// token is only trusted by the server; locally the claim is display identity.
func subjectClaim(tok string) string {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
