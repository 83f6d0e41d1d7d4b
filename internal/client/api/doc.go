// Package api contains the client-side REST transport for the OnTrack
// backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     authentication, profile, trips, predictions, the friend graph, and the
//     leaderboard.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     bearer credential from a TokenStore, transparently refreshes an expired
//     credential once and retries the original request once, and maps
//     transport conditions to sentinel errors.
//  3. The wire types exchanged with the backend (see types.go).
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable (no usable response received) and
// ErrUnauthorized (credential rejected even after one refresh attempt).
// Structured business failures carry the server-provided message as an
// *APIError.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Credential refresh is single-flight:
// concurrent calls that observe a 401 share one in-flight refresh instead of
// each issuing their own. All operations accept context.Context and honor
// cancellation.
package api
