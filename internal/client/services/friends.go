package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ontrackhq/ontrack/internal/client/api"
	"github.com/ontrackhq/ontrack/internal/logging"
)

// Friend request decisions accepted by the backend.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// FriendService drives friend search, requests, and the pending-request
// workflow. Search results and the pending set are held between calls so a
// successful action can prune them without another fetch.
type FriendService struct {
	api api.Client
	log logging.Logger

	mu      sync.Mutex
	selfID  int64
	results []api.User
	pending []api.FriendRequest
}

func NewFriendService(client api.Client, log logging.Logger) *FriendService {
	return &FriendService{
		api: client,
		log: log.With("component", "friends"),
	}
}

// SetSelf excludes the user's own listing entry from future search results.
func (f *FriendService) SetSelf(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selfID = id
}

// Search filters the full user listing by a case-insensitive substring match
// on nickname or email. There is no server-side search contract; the listing
// is fetched whole and filtered here. An empty term clears the held results.
func (f *FriendService) Search(ctx context.Context, term string) ([]api.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		f.mu.Lock()
		f.results = nil
		f.mu.Unlock()
		return nil, nil
	}

	users, err := f.api.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	needle := strings.ToLower(term)
	f.mu.Lock()
	defer f.mu.Unlock()

	f.results = f.results[:0]
	for _, u := range users {
		if u.ID == f.selfID && f.selfID != 0 {
			continue
		}
		if strings.Contains(strings.ToLower(u.Nickname), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			f.results = append(f.results, u)
		}
	}

	out := make([]api.User, len(f.results))
	copy(out, f.results)
	return out, nil
}

// Results returns the held search results.
func (f *FriendService) Results() []api.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.User, len(f.results))
	copy(out, f.results)
	return out
}

// SendRequest posts a friend request. On success the target is removed from
// the held search results so the same session cannot send a duplicate.
func (f *FriendService) SendRequest(ctx context.Context, receiverID int64) error {
	if err := f.api.SendFriendRequest(ctx, receiverID); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.results[:0]
	for _, u := range f.results {
		if u.ID != receiverID {
			kept = append(kept, u)
		}
	}
	f.results = kept
	f.log.Info(ctx, "friend request sent", "receiver_id", receiverID)
	return nil
}

// LoadPending fetches the incoming pending requests, replacing the held set.
func (f *FriendService) LoadPending(ctx context.Context) error {
	pending, err := f.api.PendingFriendRequests(ctx)
	if err != nil {
		return fmt.Errorf("loading pending requests: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = pending
	return nil
}

// Pending returns the held pending requests.
func (f *FriendService) Pending() []api.FriendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.FriendRequest, len(f.pending))
	copy(out, f.pending)
	return out
}

// Respond accepts or rejects a pending request. Only a successful call
// removes the entry from the pending set; on failure it stays so the user
// can retry.
func (f *FriendService) Respond(ctx context.Context, senderID int64, action string) error {
	if action != ActionAccept && action != ActionReject {
		return fmt.Errorf("action must be %q or %q", ActionAccept, ActionReject)
	}

	if err := f.api.HandleFriendRequest(ctx, senderID, action); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.pending[:0]
	for _, r := range f.pending {
		if r.SenderID != senderID {
			kept = append(kept, r)
		}
	}
	f.pending = kept
	f.log.Info(ctx, "friend request handled", "sender_id", senderID, "action", action)
	return nil
}
