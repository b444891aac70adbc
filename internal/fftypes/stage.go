package fftypes

// Level identifies the leaf kernel family executing one decomposition stage.
//
//go:generate go tool enumer -type Level -transform=lower -output=gen_level_enumer.go stage.go
type Level uint8

const (
	Workitem Level = iota
	Subgroup
	Workgroup
)

// Stage is one decomposition step of the mixed-radix transform. A Stage is
// immutable after Commit; all fields are finalized by the twiddle factory.
type Stage struct {
	// Level selects the leaf kernel family for this stage.
	Level Level

	// Factors are the small sub-factors whose product equals Length:
	// [F] for WORKITEM, [fsg, fwi] for SUBGROUP (fsg is the cross-lane
	// factor), [n, m] for WORKGROUP.
	Factors []int

	// Length is the stage's transform length.
	Length int

	// BatchSize is the number of sub-batches needed to cover the padded
	// length: paddedLength / (product of stage lengths up to and including
	// this one).
	BatchSize int

	// TwiddleOffset is the scalar offset of this stage's inter-stage
	// combination table inside the plan's twiddle buffer, or -1 for the
	// last stage of a chain, which has none.
	TwiddleOffset int

	// ImplTwiddleOffset is the scalar offset of the tables internal to the
	// stage's own leaf algorithm, or -1 for WORKITEM stages, which compute
	// their roots in registers.
	ImplTwiddleOffset int

	// LocalMemRequired is the stage's local-memory footprint in scalars.
	// Every stage but the last carries a one-scalar sentinel (its tables
	// stream from global memory); only the final stage of a chain may keep
	// its working set fully local-memory resident.
	LocalMemRequired int

	// GlobalSize and LocalSize form the parallel launch geometry.
	GlobalSize int
	LocalSize  int

	// SubgroupSize is the subgroup width the stage was planned for.
	SubgroupSize int
}

// TransposeDesc describes the unwind transposition between one adjacent
// stage pair: Submatrices independent Rows x Cols matrices, each transposed
// into Cols x Rows.
type TransposeDesc struct {
	Rows        int
	Cols        int
	Submatrices int
}
