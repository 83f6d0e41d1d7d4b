package api

import "context"

// TokenStore is the credential holder the transport reads from and writes to.
// The concrete implementation lives in the token package.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Client is the REST contract consumed by the session and services layers.
type Client interface {
	// Login exchanges credentials for a bearer token and stores it.
	Login(ctx context.Context, email, password string) error
	// Register creates an account. It does not log the user in.
	Register(ctx context.Context, email, password, nickname string) error

	Profile(ctx context.Context) (UserProfile, error)
	Trips(ctx context.Context) ([]Trip, error)
	Predictions(ctx context.Context) ([]Prediction, error)
	CreatePrediction(ctx context.Context, req PredictionRequest) error

	Friends(ctx context.Context) ([]Friend, error)
	Users(ctx context.Context) ([]User, error)
	SendFriendRequest(ctx context.Context, receiverID int64) error
	PendingFriendRequests(ctx context.Context) ([]FriendRequest, error)
	HandleFriendRequest(ctx context.Context, senderID int64, action string) error

	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}
