// Package cli provides the interactive OnTrack command-line client.
//
// It wires configuration, local token storage, the API client, and an
// interactive REPL for the prediction game. Typical flow: restore the saved
// session (or prompt for credentials), load the dashboard, and execute user
// commands.
//
// Key features:
//   - Register / Login / Logout with a persisted session
//   - Dashboard: score, accuracy, and a paged list of predictable trips
//   - Predict: pick a trip, pick an outcome, submit
//   - Friends: search users, send and answer friend requests
//   - Leaderboard: global ranking, available without logging in
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
