package swr

// SentinelError is an error.
type SentinelError string

const (
	// ErrFetchPanicked indicates fetcher panicked, panic value is attached to the wrapping error.
	ErrFetchPanicked = SentinelError("fetch panicked")

	// ErrNothingToInvalidate indicates no caches were added to Invalidator.
	ErrNothingToInvalidate = SentinelError("nothing to invalidate")

	// ErrAlreadyInvalidated indicates recent invalidation.
	ErrAlreadyInvalidated = SentinelError("already invalidated")
)

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}
