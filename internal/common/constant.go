// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

const (
	// AuthorizationHeaderName is the HTTP header and gRPC metadata key that
	// carries "Bearer <token>" on protected requests.
	AuthorizationHeaderName = "Authorization"

	// AuthorizationMetadataKey is the lower-case gRPC metadata form of
	// AuthorizationHeaderName.
	AuthorizationMetadataKey = "authorization"

	// RequestIDHeaderName is echoed back on every HTTP response.
	RequestIDHeaderName = "X-Request-ID"
)
