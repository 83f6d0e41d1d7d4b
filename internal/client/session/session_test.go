package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/ontrackhq/ontrack/internal/client/api"
	"github.com/ontrackhq/ontrack/internal/logging"
)

// fakeStore implements token.Store in memory.
type fakeStore struct {
	token    string
	deviceID string
}

func (f *fakeStore) Token(ctx context.Context) (string, error) { return f.token, nil }

func (f *fakeStore) SetToken(ctx context.Context, token string) error {
	f.token = token
	return nil
}

func (f *fakeStore) Clear(ctx context.Context) error { f.token = ""; return nil }

func (f *fakeStore) DeviceID(ctx context.Context) (string, error) { return f.deviceID, nil }

// fakeAPI implements api.Client; only the calls the session makes matter.
type fakeAPI struct {
	api.Client

	store *fakeStore

	loginErr    error
	loginToken  string
	registerErr error

	profile    api.UserProfile
	profileErr error

	loginCalls   int
	profileCalls int
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) error {
	f.loginCalls++
	if f.loginErr != nil {
		return f.loginErr
	}
	return f.store.SetToken(ctx, f.loginToken)
}

func (f *fakeAPI) Register(ctx context.Context, email, password, nickname string) error {
	return f.registerErr
}

func (f *fakeAPI) Profile(ctx context.Context) (api.UserProfile, error) {
	f.profileCalls++
	return f.profile, f.profileErr
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func newSession(f *fakeAPI) *Session {
	return New(f, f.store, testLogger())
}

func TestLogin_Success_Authenticated(t *testing.T) {
	store := &fakeStore{}
	f := &fakeAPI{
		store:      store,
		loginToken: signedToken(t, "17"),
		profile:    api.UserProfile{ID: 17, Nickname: "ann"},
	}
	s := newSession(f)

	require.NoError(t, s.Login(context.Background(), "a@b.c", []byte("pw")))

	require.Equal(t, StateAuthenticated, s.State())
	p, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "ann", p.Nickname)
	require.Equal(t, "17", s.UserID())
}

func TestLogin_BadCredentials_StaysAnonymous(t *testing.T) {
	store := &fakeStore{}
	f := &fakeAPI{store: store, loginErr: api.ErrUnauthorized}
	s := newSession(f)

	err := s.Login(context.Background(), "a@b.c", []byte("nope"))
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.Equal(t, StateAnonymous, s.State())
	_, ok := s.Current()
	require.False(t, ok)
}

func TestLogin_ProfileFails_RevertsToAnonymousAndClearsToken(t *testing.T) {
	store := &fakeStore{}
	f := &fakeAPI{
		store:      store,
		loginToken: signedToken(t, "17"),
		profileErr: errors.New("boom"),
	}
	s := newSession(f)

	err := s.Login(context.Background(), "a@b.c", []byte("pw"))
	require.Error(t, err)
	require.Equal(t, StateAnonymous, s.State())
	require.Empty(t, store.token)
}

func TestRestore_NoToken_NoNetworkCall(t *testing.T) {
	store := &fakeStore{}
	f := &fakeAPI{store: store}
	s := newSession(f)

	require.NoError(t, s.Restore(context.Background()))
	require.Equal(t, StateAnonymous, s.State())
	require.Equal(t, 0, f.profileCalls)
}

func TestRestore_ValidToken_Authenticated(t *testing.T) {
	store := &fakeStore{token: signedToken(t, "9")}
	f := &fakeAPI{store: store, profile: api.UserProfile{ID: 9, Nickname: "bo"}}
	s := newSession(f)

	require.NoError(t, s.Restore(context.Background()))
	require.Equal(t, StateAuthenticated, s.State())
	require.Equal(t, "9", s.UserID())
}

func TestRestore_RejectedToken_ClearedNotFatal(t *testing.T) {
	store := &fakeStore{token: "stale"}
	f := &fakeAPI{store: store, profileErr: api.ErrUnauthorized}
	s := newSession(f)

	require.NoError(t, s.Restore(context.Background()))
	require.Equal(t, StateAnonymous, s.State())
	require.Empty(t, store.token)
}

func TestRestore_ServerDown_SurfacesError(t *testing.T) {
	store := &fakeStore{token: "T"}
	f := &fakeAPI{store: store, profileErr: api.ErrUnavailable}
	s := newSession(f)

	err := s.Restore(context.Background())
	require.ErrorIs(t, err, api.ErrUnavailable)
	// Credential kept: the server being down says nothing about the token.
	require.Equal(t, "T", store.token)
}

func TestLogout_AlwaysSucceedsLocally(t *testing.T) {
	store := &fakeStore{token: signedToken(t, "5")}
	f := &fakeAPI{store: store, profile: api.UserProfile{ID: 5}}
	s := newSession(f)
	require.NoError(t, s.Restore(context.Background()))

	s.Logout(context.Background())

	require.Equal(t, StateAnonymous, s.State())
	require.Empty(t, store.token)
	require.Empty(t, s.UserID())
}

func TestRegister_Delegates(t *testing.T) {
	store := &fakeStore{}
	f := &fakeAPI{store: store}
	s := newSession(f)

	require.NoError(t, s.Register(context.Background(), "a@b.c", []byte("pw"), "ann"))

	f.registerErr = &api.APIError{Status: 409, Message: "Email or nickname already exists"}
	err := s.Register(context.Background(), "a@b.c", []byte("pw"), "ann")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
}
