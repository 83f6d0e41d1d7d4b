// Package token holds the client's durable credential store.
//
// The store keeps a single opaque bearer token under a well-known key in a
// local SQLite database, so an authenticated session survives process
// restarts. No expiry is tracked locally: a stale credential is discovered
// reactively when an authenticated call fails.
package token

import "context"

// Store is the durable credential holder.
type Store interface {
	// Token returns the current credential, or an empty string when absent.
	Token(ctx context.Context) (string, error)
	// SetToken replaces the current credential.
	SetToken(ctx context.Context, token string) error
	// Clear removes the credential.
	Clear(ctx context.Context) error
	// DeviceID returns a stable identifier for this client installation,
	// generating and persisting one on first use.
	DeviceID(ctx context.Context) (string, error)
}
