package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ontrackhq/ontrack/internal/client/api"
	"github.com/ontrackhq/ontrack/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeAPI implements api.Client for service tests, with per-operation presets
// and call counters.
type fakeAPI struct {
	mu sync.Mutex

	profile     api.UserProfile
	profileErr  error
	trips       []api.Trip
	tripsErr    error
	predictions []api.Prediction
	predErr     error
	friends     []api.Friend
	friendsErr  error
	users       []api.User
	usersErr    error
	pending     []api.FriendRequest
	pendingErr  error
	leaderboard []api.LeaderboardEntry
	boardErr    error

	createErr error
	sendErr   error
	handleErr error

	profileCalls int
	tripsCalls   int
	predCalls    int
	friendsCalls int
	handleCalls  int

	lastCreate       api.PredictionRequest
	lastSendReceiver int64
	lastHandleSender int64
	lastHandleAction string
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) error { return nil }

func (f *fakeAPI) Register(ctx context.Context, email, password, nickname string) error { return nil }

func (f *fakeAPI) Profile(ctx context.Context) (api.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	return f.profile, f.profileErr
}

func (f *fakeAPI) Trips(ctx context.Context) ([]api.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tripsCalls++
	return f.trips, f.tripsErr
}

func (f *fakeAPI) Predictions(ctx context.Context) ([]api.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predCalls++
	return f.predictions, f.predErr
}

func (f *fakeAPI) CreatePrediction(ctx context.Context, req api.PredictionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreate = req
	if f.createErr != nil {
		return f.createErr
	}
	f.predictions = append(f.predictions, api.Prediction{
		ID:               int64(len(f.predictions) + 1),
		TripID:           req.TripID,
		PredictedOutcome: req.PredictedOutcome,
	})
	return nil
}

func (f *fakeAPI) Friends(ctx context.Context) ([]api.Friend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.friendsCalls++
	return f.friends, f.friendsErr
}

func (f *fakeAPI) Users(ctx context.Context) ([]api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, f.usersErr
}

func (f *fakeAPI) SendFriendRequest(ctx context.Context, receiverID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSendReceiver = receiverID
	return f.sendErr
}

func (f *fakeAPI) PendingFriendRequests(ctx context.Context) ([]api.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, f.pendingErr
}

func (f *fakeAPI) HandleFriendRequest(ctx context.Context, senderID int64, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handleCalls++
	f.lastHandleSender = senderID
	f.lastHandleAction = action
	return f.handleErr
}

func (f *fakeAPI) Leaderboard(ctx context.Context) ([]api.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leaderboard, f.boardErr
}
