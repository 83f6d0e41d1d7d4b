package cli

import (
	"context"
	"fmt"
)

// Leaderboard prints the global ranking. Works without a session.
func (a *App) Leaderboard(ctx context.Context) error {
	entries, err := a.board.Top(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(entries) == 0 {
		printlnFn("Leaderboard is empty")
		return nil
	}
	for i, e := range entries {
		printlnFn(fmt.Sprintf("  %d. %s — %d pts", i+1, e.Nickname, e.CumulativeScore))
	}
	return nil
}
