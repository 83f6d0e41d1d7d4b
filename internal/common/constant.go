// Package common contains shared constants and small helpers used across
// OnTrack client components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-attempt correlation id.
	RequestIDHeaderName = "X-Request-Id"

	// DeviceIDHeaderName carries the stable client identifier.
	DeviceIDHeaderName = "X-Device-Id"
)
