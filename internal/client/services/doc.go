// Package services contains the application services of the OnTrack client:
// the dashboard orchestrator that assembles the main view from several
// independent remote reads and drives prediction submission, the friend-graph
// service for search/request/respond flows, and the leaderboard reader.
//
// All services are layered on the api.Client transport and never talk to the
// network directly.
package services
