package device

import "github.com/cwbudde/parfft/internal/fftypes"

// BatchRange selects a contiguous range [Begin, End) of transforms within
// one execution chunk.
type BatchRange struct {
	Begin int
	End   int
}

// Count returns the number of transforms in the range.
func (r BatchRange) Count() int { return r.End - r.Begin }

// StageArgs carries one leaf-kernel invocation: which stage to run, where
// its data lives, and which twiddle slices it consumes. Offsets and
// strides are in scalars.
//
// With split storage the imaginary plane travels in the *Imag fields; with
// interleaved storage those fields are nil and re/im scalars are adjacent.
type StageArgs[T fftypes.Float] struct {
	Stage *fftypes.Stage

	Storage fftypes.Storage
	Layout  fftypes.Layout

	// Conjugate flips the sign of every twiddle and root used by the
	// stage (backward arithmetic).
	Conjugate bool

	// ConjugateMods conjugates the load/store modifier tables
	// independently of Conjugate (Bluestein chains under a backward
	// user direction).
	ConjugateMods bool

	CommittedLength int
	PaddedLength    int

	In, Out                 Buffer[T]
	InOffset, OutOffset     int
	InImag, OutImag         Buffer[T]
	InImagOff, OutImagOff   int
	InBatchStr, OutBatchStr int

	// InLength is the number of valid complex elements per transform in
	// the input; natural indices beyond it read as zero (Bluestein
	// zero-padding). Usually equals PaddedLength.
	InLength int

	// OutLength is the number of complex elements written per transform.
	// Less than PaddedLength only when a single-stage chain truncates
	// directly into the caller's output.
	OutLength int

	Twiddles Buffer[T]

	// LoadModOffset, when >= 0, is the scalar offset of a per-element
	// complex multiplier applied while reading (chirp modifiers, or the
	// chirp spectrum for the pointwise multiply between Bluestein chains).
	LoadModOffset int

	// StoreModOffset, when >= 0, is applied while writing, scaled by
	// StoreScale. Only meaningful on the operation producing the chain's
	// final output.
	StoreModOffset int
	StoreScale     float64

	Batch BatchRange
}

// LevelExecutor executes one Stage for a batch range. Implementations
// consume exactly the stage's Factors and the documented twiddle layout,
// and must express ordering only through deps and the returned event.
type LevelExecutor[T fftypes.Float] interface {
	Execute(q Queue[T], args StageArgs[T], deps []Event) Event
}

// TransposeArgs carries one unwind-transposition pass. ElemWidth is the
// number of scalars per element (2 interleaved, 1 for a single split
// plane). A store modifier requires complex arithmetic, so for split
// storage such a pass carries both planes in one call; plain passes are
// issued independently per plane.
type TransposeArgs[T fftypes.Float] struct {
	In, Out                 Buffer[T]
	InOffset, OutOffset     int
	InImag, OutImag         Buffer[T]
	InImagOff, OutImagOff   int
	InBatchStr, OutBatchStr int
	ElemWidth               int

	// OutLength is the number of elements written per transform;
	// truncates padded Bluestein results back to the committed length.
	OutLength int

	Twiddles       Buffer[T]
	StoreModOffset int
	StoreScale     float64
	ConjugateMods  bool

	Batch BatchRange
}

// TransposeExecutor performs the data-reordering pass between stages.
type TransposeExecutor[T fftypes.Float] interface {
	Execute(q Queue[T], desc fftypes.TransposeDesc, args TransposeArgs[T], deps []Event) Event
}
