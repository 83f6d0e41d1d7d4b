package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ontrackhq/ontrack/internal/client/services"
)

// Find searches users by nickname or email and lists the matches.
func (a *App) Find(ctx context.Context, term string) error {
	results, err := a.friends.Search(ctx, term)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(results) == 0 {
		printlnFn("No users found")
		return nil
	}
	for _, u := range results {
		printlnFn(fmt.Sprintf("  %d  %s <%s> — %d pts", u.ID, u.Nickname, u.Email, u.CumulativeScore))
	}
	printlnFn("Type 'add ID' to send a friend request")
	return nil
}

// Befriend sends a friend request to the user with the given id.
func (a *App) Befriend(ctx context.Context, userID string) error {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return a.report(ctx, fmt.Errorf("user id must be a number: %q", userID))
	}
	if err := a.friends.SendRequest(ctx, id); err != nil {
		return a.report(ctx, err)
	}
	a.banner.Success("Friend request sent")
	return nil
}

// Requests lists the incoming pending friend requests.
func (a *App) Requests(ctx context.Context) error {
	if err := a.friends.LoadPending(ctx); err != nil {
		return a.report(ctx, err)
	}
	pending := a.friends.Pending()
	if len(pending) == 0 {
		printlnFn("No pending friend requests")
		return nil
	}
	for _, r := range pending {
		printlnFn(fmt.Sprintf("  %d  %s <%s>", r.SenderID, r.Nickname, r.Email))
	}
	printlnFn("Type 'accept ID' or 'reject ID'")
	return nil
}

// Accept accepts the pending request from the given sender.
func (a *App) Accept(ctx context.Context, senderID string) error {
	return a.respond(ctx, senderID, services.ActionAccept)
}

// Reject declines the pending request from the given sender.
func (a *App) Reject(ctx context.Context, senderID string) error {
	return a.respond(ctx, senderID, services.ActionReject)
}

func (a *App) respond(ctx context.Context, senderID, action string) error {
	id, err := strconv.ParseInt(senderID, 10, 64)
	if err != nil {
		return a.report(ctx, fmt.Errorf("sender id must be a number: %q", senderID))
	}
	if err := a.friends.Respond(ctx, id, action); err != nil {
		return a.report(ctx, err)
	}
	a.banner.Success(fmt.Sprintf("Request %sed", action))
	return nil
}

// Friends shows the friend list ranked by score.
func (a *App) Friends(ctx context.Context) error {
	ranked := a.dashboard.FriendsRanked()
	if len(ranked) == 0 {
		printlnFn("No friends yet, try 'find' to look for people")
		return nil
	}
	for i, f := range ranked {
		printlnFn(fmt.Sprintf("  %d. %s — %d pts", i+1, f.Nickname, f.CumulativeScore))
	}
	return nil
}
