package parfft

import (
	stdmath "math"

	"k8s.io/klog/v2"

	"github.com/cwbudde/parfft/internal/fftypes"
	"github.com/cwbudde/parfft/internal/math"
)

// Twiddle buffer layout, in scalar offsets:
//
//  1. prime plans only: the chirp spectrum G (2M scalars) at offset 0,
//     then the chirp signal c zero-padded to M (2M scalars) at 2M;
//  2. per chain (forward, then backward for prime plans):
//     a. the inter-stage combination table of each stage except the last
//        (2*F_s*B_s scalars each), recorded as Stage.TwiddleOffset;
//     b. the embedded implementation table of each stage, recorded as
//        Stage.ImplTwiddleOffset — empty for workitem (roots are computed
//        in registers), 2F for subgroup, 2(F+n+m) for workgroup.
//
// Every entry is interleaved (re, im) except the subgroup matrix, which is
// split-plane within its 2F slot. All tables carry the forward exponent
// sign; conjugation happens at read time.

// implTwiddleScalars returns the footprint of a stage's embedded table.
func implTwiddleScalars(st *fftypes.Stage) int {
	switch st.Level {
	case fftypes.Workitem:
		return 0
	case fftypes.Subgroup:
		return 2 * st.Length
	case fftypes.Workgroup:
		return 2 * (st.Length + st.Factors[0] + st.Factors[1])
	}
	return 0
}

// assignTwiddleOffsets walks one chain, recording each stage's table
// offsets starting at base, and returns the offset past the chain's
// section. Stages that have no table of a kind get offset -1.
func assignTwiddleOffsets(stages []fftypes.Stage, base int) int {
	off := base
	for i := range stages {
		if i < len(stages)-1 {
			stages[i].TwiddleOffset = off
			off += 2 * stages[i].Length * stages[i].BatchSize
		} else {
			stages[i].TwiddleOffset = -1
		}
	}
	for i := range stages {
		if n := implTwiddleScalars(&stages[i]); n > 0 {
			stages[i].ImplTwiddleOffset = off
			off += n
		} else {
			stages[i].ImplTwiddleOffset = -1
		}
	}
	return off
}

// twiddleLayout assigns every table offset of the plan and returns the
// total buffer size in scalars. Deterministic in (padded length, stage
// levels, is-prime); committing the same configuration twice yields
// identical layouts.
func twiddleLayout(fwd, bwd []fftypes.Stage, paddedLen int, isPrime bool) int {
	off := 0
	if isPrime {
		off = 4 * paddedLen // G then padded c
	}
	off = assignTwiddleOffsets(fwd, off)
	if isPrime {
		off = assignTwiddleOffsets(bwd, off)
	}
	return off
}

// forwardRoot returns e^(-2*pi*i*num/den), reducing num modulo den first
// so large products keep full precision.
func forwardRoot(num, den int) complex128 {
	theta := -2 * stdmath.Pi * float64(num%den) / float64(den)
	return complex(stdmath.Cos(theta), stdmath.Sin(theta))
}

func putComplex[T Float](dst []T, off int, v complex128) {
	dst[off] = T(real(v))
	dst[off+1] = T(imag(v))
}

// populateStageTables writes one chain's inter-stage and implementation
// tables into dst at the offsets assigned by twiddleLayout.
func populateStageTables[T Float](dst []T, stages []fftypes.Stage) {
	for i := range stages {
		st := &stages[i]

		if st.TwiddleOffset >= 0 {
			// W_{F*B}^{k*sub}: factor-major for workitem leaves,
			// sub-batch-major for the others, matching each family's read
			// order.
			f, b := st.Length, st.BatchSize
			for k := range f {
				for sub := range b {
					tidx := sub*f + k
					if st.Level == fftypes.Workitem {
						tidx = k*b + sub
					}
					putComplex(dst, st.TwiddleOffset+2*tidx, forwardRoot(k*sub, f*b))
				}
			}
		}

		switch st.Level {
		case fftypes.Subgroup:
			// Split-plane A x B matrix of W_F^{k0*sub}.
			a, b := st.Factors[0], st.Factors[1]
			off := st.ImplTwiddleOffset
			for sub := range b {
				for k0 := range a {
					v := forwardRoot(k0*sub, a*b)
					dst[off+sub*a+k0] = T(real(v))
					dst[off+(sub+b)*a+k0] = T(imag(v))
				}
			}
		case fftypes.Workgroup:
			// W_n roots, W_m roots, then the combined matrix transposed to
			// [b*n + k0].
			n, m := st.Factors[0], st.Factors[1]
			off := st.ImplTwiddleOffset
			for j := range n {
				putComplex(dst, off+2*j, forwardRoot(j, n))
			}
			for j := range m {
				putComplex(dst, off+2*n+2*j, forwardRoot(j, m))
			}
			combined := make([]T, 2*n*m)
			for k0 := range n {
				for b := range m {
					putComplex(combined, 2*(k0*m+b), forwardRoot(k0*b, n*m))
				}
			}
			math.ComplexTranspose(combined, dst[off+2*n+2*m:], n, m)
		}
	}
}

// populateChirp writes the Bluestein prefix for a prime length n embedded
// at padded length m: the length-m spectrum G of the circularly embedded
// inverse chirp, then the chirp signal c itself zero-padded to m.
// c[j] = e^(-i*pi*j^2/n), with the quadratic exponent reduced mod 2n.
func populateChirp[T Float](dst []T, n, m int) {
	c := make([]complex128, n)
	for j := range n {
		c[j] = forwardRoot((j*j)%(2*n), 2*n)
	}

	d := make([]complex128, m)
	d[0] = 1
	for j := 1; j < n; j++ {
		v := complex(real(c[j]), -imag(c[j]))
		d[j] = v
		d[m-j] = v
	}

	g := math.FFT(d, false)
	for j := range m {
		putComplex(dst, 2*j, g[j])
	}
	for j := range m {
		if j < n {
			putComplex(dst, 2*m+2*j, c[j])
		} else {
			putComplex(dst, 2*m+2*j, 0)
		}
	}
}

// populateTwiddles fills the whole twiddle buffer image on the host.
func populateTwiddles[T Float](dst []T, fwd, bwd []fftypes.Stage, committedLen, paddedLen int, isPrime bool) {
	if isPrime {
		populateChirp(dst, committedLen, paddedLen)
	}
	populateStageTables(dst, fwd)
	if isPrime {
		populateStageTables(dst, bwd)
	}
	klog.V(2).Infof("parfft: twiddle image populated, %d scalars", len(dst))
}
