package kernels

import (
	"math"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
)

// WorkitemKernel is the reference executor for WORKITEM stages: each
// transform is small enough for a single lane, so the leaf algorithm is a
// direct DFT with roots computed in registers. No leaf-internal twiddle
// tables are consumed.
type WorkitemKernel[T fftypes.Float] struct{}

func (WorkitemKernel[T]) Execute(q device.Queue[T], args device.StageArgs[T], deps []device.Event) device.Event {
	return q.Submit("workitem-fft", deps, func() error {
		return runStage(args, directDFT)
	})
}

// directDFT transforms x in place, O(n^2) with on-the-fly roots.
func directDFT(x []complex128, conj bool) {
	n := len(x)
	sign := -1.0
	if conj {
		sign = 1.0
	}

	out := make([]complex128, n)
	for k := range n {
		var sum complex128
		for j := range n {
			theta := sign * 2 * math.Pi * float64((j*k)%n) / float64(n)
			sum += x[j] * complex(math.Cos(theta), math.Sin(theta))
		}
		out[k] = sum
	}
	copy(x, out)
}
