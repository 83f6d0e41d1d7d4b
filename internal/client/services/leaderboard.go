package services

import (
	"context"
	"fmt"

	"github.com/ontrackhq/ontrack/internal/client/api"
	"github.com/ontrackhq/ontrack/internal/logging"
)

// LeaderboardService reads the global ranking. The endpoint is public; no
// session is required.
type LeaderboardService struct {
	api api.Client
	log logging.Logger
}

func NewLeaderboardService(client api.Client, log logging.Logger) *LeaderboardService {
	return &LeaderboardService{
		api: client,
		log: log.With("component", "leaderboard"),
	}
}

// Top returns the leaderboard entries in server order.
func (l *LeaderboardService) Top(ctx context.Context) ([]api.LeaderboardEntry, error) {
	entries, err := l.api.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	return entries, nil
}
