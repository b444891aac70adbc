package kernels

import (
	"github.com/gomlx/exceptions"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
)

// WorkgroupKernel is the reference executor for WORKGROUP stages. The
// stage length splits as n*m with both sub-factors workitem-sized; the
// leaf consumes three embedded tables: the W_n root vector, the W_m root
// vector, and the combined n x m matrix, which the factory stores
// pre-transposed (indexed [b*n + k0]).
type WorkgroupKernel[T fftypes.Float] struct{}

func (WorkgroupKernel[T]) Execute(q device.Queue[T], args device.StageArgs[T], deps []device.Event) device.Event {
	return q.Submit("workgroup-fft", deps, func() error {
		st := args.Stage
		if len(st.Factors) != 2 {
			exceptions.Panicf("kernels: workgroup stage of length %d has %d factors, want 2", st.Length, len(st.Factors))
		}
		tw := hostData(args.Twiddles)
		n, m := st.Factors[0], st.Factors[1]
		return runStage(args, func(x []complex128, conj bool) {
			workgroupDFT(x, n, m, tw, st.ImplTwiddleOffset, conj)
		})
	})
}

// workgroupDFT transforms x (length n*m) in place: n-point DFTs with
// stride m using the W_n roots, the transposed combined matrix, then
// m-point DFTs using the W_m roots.
func workgroupDFT[T fftypes.Float](x []complex128, n, m int, tw []T, off int, conj bool) {
	rootsN := off
	rootsM := off + 2*n
	combined := off + 2*n + 2*m

	tmp := make([]complex128, n*m)
	for b := range m {
		for k0 := range n {
			var sum complex128
			for i := range n {
				sum += x[i*m+b] * tableAt(tw, rootsN+2*((i*k0)%n), conj)
			}
			sum *= tableAt(tw, combined+2*(b*n+k0), conj)
			tmp[k0*m+b] = sum
		}
	}

	for k0 := range n {
		for kp := range m {
			var sum complex128
			for b := range m {
				sum += tmp[k0*m+b] * tableAt(tw, rootsM+2*((b*kp)%m), conj)
			}
			x[k0+n*kp] = sum
		}
	}
}
