package sfmcclient

import "github.com/pkg/errors"

var (
	// ErrNotConfigured means the tenant settings are incomplete. The process
	// stays in demo mode until restarted with credentials.
	ErrNotConfigured = errors.New("marketing cloud credentials are not configured")

	ErrAuthentication = errors.New("marketing cloud authentication failed")

	// ErrUnauthorized is returned by the REST client when a request is
	// rejected with 401 even after a fresh token was obtained.
	ErrUnauthorized = errors.New("marketing cloud rejected the access token")
)
