package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ontrackhq/ontrack/internal/client/api"
	"github.com/ontrackhq/ontrack/internal/client/config"
	"github.com/ontrackhq/ontrack/internal/client/services"
	"github.com/ontrackhq/ontrack/internal/client/session"
	"github.com/ontrackhq/ontrack/internal/client/token"
	"github.com/ontrackhq/ontrack/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the configuration, local token storage, API client, session, and
// domain services behind the REPL command surface.
type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	session   *session.Session
	dashboard *services.DashboardService
	friends   *services.FriendService
	board     *services.LeaderboardService
	banner    *banner
	reader    *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := token.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening local state: %w", err)
	}

	store := token.NewSQLiteStore(db)
	deviceID, err := store.DeviceID(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reading device id: %w", err)
	}

	apiClient := api.NewHTTPClient(c.ServerBaseURL, store, log, api.HTTPClientOptions{
		Timeout:           c.RequestTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
		DeviceID:          deviceID,
	})

	return &App{
		config:    c,
		log:       log,
		db:        db,
		session:   session.New(apiClient, store, log),
		dashboard: services.NewDashboardService(apiClient, log, c.PageSize),
		friends:   services.NewFriendService(apiClient, log),
		board:     services.NewLeaderboardService(apiClient, log),
		banner:    newBanner(),
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores any saved session and enters the REPL. It blocks until the
// user exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.session.Restore(ctx); err != nil {
		a.banner.Errorf("Could not restore session: %v", err)
	}
	if profile, ok := a.session.Current(); ok {
		a.friends.SetSelf(profile.ID)
		a.banner.Success(fmt.Sprintf("Welcome back, %s!", profile.Nickname))
	}

	printlnFn("OnTrack CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.banner.Current, bufio.NewScanner(os.Stdin))
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.StateAuthenticated
}

func (a *App) status() string {
	profile, ok := a.session.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s)", profile.Nickname)
}

// report banners err for the user and returns it unchanged. An expired
// session is invalidated so the prompt drops back to the anonymous state.
func (a *App) report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, api.ErrUnavailable):
		a.banner.Errorf("Server unavailable, try again later")
	case errors.Is(err, api.ErrUnauthorized):
		a.session.Invalidate(ctx)
		a.banner.Errorf("Session expired, please log in again")
	default:
		a.banner.Errorf("%v", err)
	}
	return err
}
