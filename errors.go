package parfft

import "errors"

// Sentinel errors returned by Commit and Execute. Configuration and
// resource errors are user-visible; internal invariant violations panic
// via gomlx/exceptions instead, since they indicate bugs.
var (
	// ErrInvalidLength is returned when the transform length is zero,
	// negative, or the degenerate length 1.
	ErrInvalidLength = errors.New("parfft: invalid transform length")

	// ErrNotFactorizable is returned when a length cannot be decomposed
	// into stages the leaf kernel families can execute (a prime factor
	// beyond workgroup capacity).
	ErrNotFactorizable = errors.New("parfft: length has no executable factorization")

	// ErrInvalidBatchCount is returned for a non-positive batch count or
	// an Execute batch count exceeding the committed one.
	ErrInvalidBatchCount = errors.New("parfft: invalid batch count")

	// ErrUnsupportedStorage is returned for an unknown storage layout.
	ErrUnsupportedStorage = errors.New("parfft: unsupported storage layout")

	// ErrIncompleteRuntime is returned when the runtime is missing the
	// queue or one of the kernel execution surfaces.
	ErrIncompleteRuntime = errors.New("parfft: incomplete runtime")

	// ErrResourceExhausted is returned when host or device memory for the
	// twiddle or scratch buffers cannot be allocated. Commit never
	// retries; the descriptor is left uncommitted.
	ErrResourceExhausted = errors.New("parfft: twiddle or scratch allocation failed")

	// ErrUncommitted is returned when executing a descriptor whose Commit
	// failed or that has been closed.
	ErrUncommitted = errors.New("parfft: descriptor is not committed")

	// ErrConcurrentExecution is returned when two Execute calls overlap on
	// one descriptor; the scratch pair is exclusive to one in-flight
	// invocation and callers must serialize.
	ErrConcurrentExecution = errors.New("parfft: concurrent execute on one descriptor")

	// ErrBufferTooSmall is returned when an input or output buffer cannot
	// hold the requested batches, or a split-storage plane is missing.
	ErrBufferTooSmall = errors.New("parfft: buffer too small for requested batches")
)

// IsConfiguration reports whether err is a plan-time configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrNotFactorizable) ||
		errors.Is(err, ErrInvalidBatchCount) ||
		errors.Is(err, ErrUnsupportedStorage) ||
		errors.Is(err, ErrIncompleteRuntime)
}

// IsResourceExhaustion reports whether err is an allocation failure.
func IsResourceExhaustion(err error) bool {
	return errors.Is(err, ErrResourceExhausted)
}
