package fftypes

// Float is a type constraint for the scalar element types supported by the
// dispatch engine. Complex values are stored as adjacent (re, im) scalar
// pairs, or as separate real/imaginary planes with split storage.
type Float interface {
	~float32 | ~float64
}

// Direction selects the sign of the transform exponent. Backward is the
// unscaled inverse: callers divide by the transform length to round-trip.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// Storage describes how complex values are laid out in user buffers and in
// the scratch buffers.
type Storage uint8

const (
	// InterleavedComplex stores re/im adjacent: [re0, im0, re1, im1, ...].
	InterleavedComplex Storage = iota
	// SplitComplex stores all real parts in one plane and all imaginary
	// parts in a second plane (or a second buffer).
	SplitComplex
)

// String returns a human-readable name for the storage kind.
func (s Storage) String() string {
	switch s {
	case InterleavedComplex:
		return "interleaved"
	case SplitComplex:
		return "split"
	default:
		return "unknown"
	}
}

// Layout describes how a stage addresses the sub-batches of one transform.
// Intermediate stages of the multi-stage pipeline work on sub-batch-strided
// data; the final stage works on contiguous data in output order.
type Layout uint8

const (
	BatchInterleaved Layout = iota
	Packed
)

// String returns a human-readable name for the layout.
func (l Layout) String() string {
	switch l {
	case BatchInterleaved:
		return "batch-interleaved"
	case Packed:
		return "packed"
	default:
		return "unknown"
	}
}
