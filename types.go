package parfft

import "github.com/cwbudde/parfft/internal/fftypes"

// Float is the type constraint for supported scalar element types.
// The canonical definition is in internal/fftypes.
type Float = fftypes.Float

// Direction selects forward or (unscaled) backward transforms.
type Direction = fftypes.Direction

const (
	Forward  = fftypes.Forward
	Backward = fftypes.Backward
)

// Storage selects interleaved or split complex layout.
type Storage = fftypes.Storage

const (
	InterleavedComplex = fftypes.InterleavedComplex
	SplitComplex       = fftypes.SplitComplex
)

// Level identifies the leaf kernel family of a Stage.
type Level = fftypes.Level

const (
	Workitem  = fftypes.Workitem
	Subgroup  = fftypes.Subgroup
	Workgroup = fftypes.Workgroup
)

// Layout describes a stage's sub-batch addressing.
type Layout = fftypes.Layout

const (
	BatchInterleaved = fftypes.BatchInterleaved
	Packed           = fftypes.Packed
)

// Stage is one decomposition step of the committed transform.
type Stage = fftypes.Stage

// TransposeDesc describes one unwind transposition between adjacent stages.
type TransposeDesc = fftypes.TransposeDesc
