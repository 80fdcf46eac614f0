package sync

import "errors"

// Sentinel errors for the tap pipeline. The HTTP layer matches these
// with errors.Is and translates them to the fixed client error bodies.
var (
	// ErrValidation marks malformed or missing client input.
	ErrValidation = errors.New("invalid sync request")

	// ErrUnauthorized marks a failed signed-payload check. Carries no
	// detail beyond rejection.
	ErrUnauthorized = errors.New("init data verification failed")

	// ErrRateLimited marks a sync inside the cooldown window.
	ErrRateLimited = errors.New("sync rate limit exceeded")
)
