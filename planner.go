package parfft

import (
	"k8s.io/klog/v2"

	"github.com/cwbudde/parfft/internal/fftypes"
	"github.com/cwbudde/parfft/internal/math"
)

const (
	// maxWorkitemLen is the largest DFT a single workitem executes from
	// registers; it also bounds each factor of the subgroup and workgroup
	// decompositions.
	maxWorkitemLen = 32

	// maxStageLen bounds the length peeled into one stage. Equal to the
	// workgroup family's capacity (maxWorkitemLen squared).
	maxStageLen = maxWorkitemLen * maxWorkitemLen
)

// classify determines the cheapest leaf kernel family able to execute an
// F-point DFT, and the factor split that family uses. Preference order is
// workitem, subgroup, workgroup.
func classify(f, sgSize int) (fftypes.Level, []int, bool) {
	if f <= maxWorkitemLen {
		return fftypes.Workitem, []int{f}, true
	}
	// Subgroup: F = fsg*fwi with fsg spread across lanes. Prefer the
	// largest cross-lane factor to keep the per-lane DFT small.
	for fsg := min(sgSize, f); fsg >= 2; fsg-- {
		if f%fsg == 0 && f/fsg <= maxWorkitemLen {
			return fftypes.Subgroup, []int{fsg, f / fsg}, true
		}
	}
	// Workgroup: F = n*m, both within workitem capacity. The balanced
	// split minimizes the larger factor, so if it does not fit, no split
	// does.
	if n := math.BalancedFactor(f); n > 1 {
		m := f / n
		if n <= maxWorkitemLen && m <= maxWorkitemLen {
			return fftypes.Workgroup, []int{n, m}, true
		}
	}
	return 0, nil, false
}

// factorize greedily peels the largest classifiable divisor off n until it
// is fully decomposed, producing the ordered stage chain skeleton (level,
// factors and length only).
func factorize(n, sgSize int) ([]fftypes.Stage, error) {
	var stages []fftypes.Stage
	remaining := n
	for remaining > 1 {
		found := false
		for d := min(remaining, maxStageLen); d >= 2; d-- {
			if remaining%d != 0 {
				continue
			}
			level, factors, ok := classify(d, sgSize)
			if !ok {
				continue
			}
			stages = append(stages, fftypes.Stage{
				Level:   level,
				Factors: factors,
				Length:  d,
			})
			remaining /= d
			found = true
			break
		}
		if !found {
			return nil, ErrNotFactorizable
		}
	}
	return stages, nil
}

// factorable reports whether factorize can fully decompose n.
func factorable(n, sgSize int) bool {
	stages, err := factorize(n, sgSize)
	return err == nil && len(stages) > 0
}

// bluesteinLength selects the padded length for a prime transform: the
// smallest composite M >= 2N-1 the factorization routine fully decomposes.
func bluesteinLength(n, sgSize int) int {
	for m := 2*n - 1; ; m++ {
		if math.IsPrime(m) {
			continue
		}
		if factorable(m, sgSize) {
			return m
		}
	}
}

// chainMetadata fills the per-stage batch sizes of a chain decomposing
// paddedLen and derives the transpose descriptors that unwind the chain's
// digit permutation. Stage s of lengths F_0..F_{K-1} carries
// BatchSize = M / (F_0*...*F_s); the last stage always has BatchSize 1.
func chainMetadata(stages []fftypes.Stage, paddedLen int) []fftypes.TransposeDesc {
	prod := 1
	for i := range stages {
		prod *= stages[i].Length
		stages[i].BatchSize = paddedLen / prod
	}

	if len(stages) < 2 {
		return nil
	}
	descs := make([]fftypes.TransposeDesc, len(stages)-1)
	for t := range descs {
		f, b := stages[t].Length, stages[t].BatchSize
		descs[t] = fftypes.TransposeDesc{
			Rows:        f,
			Cols:        b,
			Submatrices: paddedLen / (f * b),
		}
	}
	return descs
}

// planStructure decomposes the requested length into the plan's stage
// chains and transpose descriptors, before launch geometry and twiddle
// layout are finalized.
func planStructure(n, sgSize int) (padded int, isPrime bool, fwd, bwd []fftypes.Stage, fwdT, bwdT []fftypes.TransposeDesc, err error) {
	if n <= 1 {
		err = ErrInvalidLength
		return
	}

	padded = n
	if math.IsPrime(n) {
		isPrime = true
		padded = bluesteinLength(n, sgSize)
		klog.V(1).Infof("parfft: prime length %d embedded at padded length %d", n, padded)
	}

	fwd, err = factorize(padded, sgSize)
	if err != nil {
		return
	}
	fwdT = chainMetadata(fwd, padded)

	if isPrime {
		// The convolution's completing chain shares the decomposition but
		// carries its own metadata (twiddle offsets differ).
		bwd = make([]fftypes.Stage, len(fwd))
		for i := range fwd {
			bwd[i] = fwd[i]
			bwd[i].Factors = append([]int(nil), fwd[i].Factors...)
		}
		bwdT = chainMetadata(bwd, padded)
	}
	return
}

// batchesInL2 bounds the number of transforms resident in one pipeline
// chunk by the device's last-level cache: each transform occupies 2*M
// scalars in scratch.
func batchesInL2(l2Bytes, paddedLen, elemSize, numTransforms int) int {
	perBatch := 2 * paddedLen * elemSize
	n := l2Bytes / perBatch
	if n < 1 {
		n = 1
	}
	if n > numTransforms {
		n = numTransforms
	}
	return n
}
