package kernels

import (
	"math"

	"github.com/gomlx/exceptions"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
)

// SubgroupKernel is the reference executor for SUBGROUP stages. The stage
// length factors as fsg*fwi; the cross-lane combination consumes the
// embedded A x B matrix in its split-plane layout (real parts at
// [b*A + j], imaginary parts at [(b+B)*A + j]).
type SubgroupKernel[T fftypes.Float] struct{}

func (SubgroupKernel[T]) Execute(q device.Queue[T], args device.StageArgs[T], deps []device.Event) device.Event {
	return q.Submit("subgroup-fft", deps, func() error {
		st := args.Stage
		if len(st.Factors) != 2 {
			exceptions.Panicf("kernels: subgroup stage of length %d has %d factors, want 2", st.Length, len(st.Factors))
		}
		tw := hostData(args.Twiddles)
		a, b := st.Factors[0], st.Factors[1]
		return runStage(args, func(x []complex128, conj bool) {
			subgroupDFT(x, a, b, tw, st.ImplTwiddleOffset, conj)
		})
	})
}

// subgroupDFT transforms x (length a*b) in place: a-point DFTs with stride
// b, the embedded twiddle matrix, then b-point DFTs with a transposed
// write-back into natural order.
func subgroupDFT[T fftypes.Float](x []complex128, a, b int, tw []T, off int, conj bool) {
	sign := -1.0
	if conj {
		sign = 1.0
	}

	tmp := make([]complex128, a*b)
	for sub := range b {
		for k0 := range a {
			var sum complex128
			for i := range a {
				theta := sign * 2 * math.Pi * float64((i*k0)%a) / float64(a)
				sum += x[i*b+sub] * complex(math.Cos(theta), math.Sin(theta))
			}

			im := float64(tw[off+(sub+b)*a+k0])
			if conj {
				im = -im
			}
			tmp[k0*b+sub] = sum * complex(float64(tw[off+sub*a+k0]), im)
		}
	}

	for k0 := range a {
		for kp := range b {
			var sum complex128
			for sub := range b {
				theta := sign * 2 * math.Pi * float64((sub*kp)%b) / float64(b)
				sum += tmp[k0*b+sub] * complex(math.Cos(theta), math.Sin(theta))
			}
			x[k0+a*kp] = sum
		}
	}
}
