package kernels

import (
	"github.com/gomlx/exceptions"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
)

// TransposeKernel is the reference transpose executor: it unwinds one
// stage pair's digit permutation by transposing Submatrices independent
// Rows x Cols matrices. Plain passes move a single plane (or interleaved
// pairs); a pass carrying the Bluestein store modifier performs the
// complex multiply and so addresses both planes in one call.
type TransposeKernel[T fftypes.Float] struct{}

func (TransposeKernel[T]) Execute(q device.Queue[T], desc fftypes.TransposeDesc, args device.TransposeArgs[T], deps []device.Event) device.Event {
	return q.Submit("transpose", deps, func() error {
		rc := desc.Rows * desc.Cols
		total := desc.Submatrices * rc
		outLen := args.OutLength
		if outLen == 0 {
			outLen = total
		}

		// Scalar fast path: one split plane, no modifier.
		if args.ElemWidth == 1 && args.InImag == nil {
			if args.StoreModOffset >= 0 {
				exceptions.Panicf("kernels: store modifier on a single-plane transpose")
			}
			in := hostData(args.In)
			out := hostData(args.Out)
			for q := args.Batch.Begin; q < args.Batch.End; q++ {
				for o := range outLen {
					s := o / rc
					rem := o % rc
					c := rem / desc.Rows
					r := rem % desc.Rows
					src := s*rc + r*desc.Cols + c
					out[args.OutOffset+q*args.OutBatchStr+o] = in[args.InOffset+q*args.InBatchStr+src]
				}
			}
			return nil
		}

		in := makeSpan(args.In, args.InImag, args.InOffset, args.InImagOff, args.InBatchStr)
		out := makeSpan(args.Out, args.OutImag, args.OutOffset, args.OutImagOff, args.OutBatchStr)
		tw := hostData(args.Twiddles)

		for q := args.Batch.Begin; q < args.Batch.End; q++ {
			for o := range outLen {
				s := o / rc
				rem := o % rc
				c := rem / desc.Rows
				r := rem % desc.Rows
				v := in.get(q, s*rc+r*desc.Cols+c)
				if args.StoreModOffset >= 0 {
					v *= tableAt(tw, args.StoreModOffset+2*o, args.ConjugateMods)
					v *= complex(args.StoreScale, 0)
				}
				out.set(q, o, v)
			}
		}
		return nil
	})
}
