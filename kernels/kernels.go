// Package kernels provides reference (host) implementations of the three
// leaf-level FFT executors and the transpose executor. They execute on the
// CPU through a device.HostQueue and define the executable contract real
// accelerator backends implement: the exact twiddle-table layouts, the
// sub-batch addressing per layout, and the modifier semantics of the
// Bluestein chains.
package kernels

import (
	"github.com/gomlx/exceptions"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
)

// NewHostRuntime bundles a host queue with the reference kernels, ready to
// be passed to Commit.
func NewHostRuntime[T fftypes.Float](q *device.HostQueue[T]) device.Runtime[T] {
	return device.Runtime[T]{
		Queue: q,
		Levels: map[fftypes.Level]device.LevelExecutor[T]{
			fftypes.Workitem:  WorkitemKernel[T]{},
			fftypes.Subgroup:  SubgroupKernel[T]{},
			fftypes.Workgroup: WorkgroupKernel[T]{},
		},
		Transpose: TransposeKernel[T]{},
	}
}

// hostData returns the backing slice of a host buffer. The reference
// kernels only run against the host queue.
func hostData[T fftypes.Float](b device.Buffer[T]) []T {
	if b == nil {
		return nil
	}
	hb, ok := b.(*device.HostBuffer[T])
	if !ok {
		exceptions.Panicf("kernels: buffer %T is not a host buffer", b)
	}
	return hb.Data()
}

// span addresses the complex elements of one data region: a transform
// batch q and a complex element index within the transform.
type span[T fftypes.Float] struct {
	re      []T
	im      []T // nil unless split storage
	off     int
	imagOff int
	stride  int // scalars between consecutive transforms
}

func makeSpan[T fftypes.Float](buf, imagBuf device.Buffer[T], off, imagOff, stride int) span[T] {
	s := span[T]{re: hostData(buf), off: off, imagOff: imagOff, stride: stride}
	if imagBuf != nil {
		s.im = hostData(imagBuf)
	}
	return s
}

func (s span[T]) get(q, idx int) complex128 {
	if s.im != nil {
		return complex(
			float64(s.re[s.off+q*s.stride+idx]),
			float64(s.im[s.imagOff+q*s.stride+idx]),
		)
	}
	base := s.off + q*s.stride + 2*idx
	return complex(float64(s.re[base]), float64(s.re[base+1]))
}

func (s span[T]) set(q, idx int, v complex128) {
	if s.im != nil {
		s.re[s.off+q*s.stride+idx] = T(real(v))
		s.im[s.imagOff+q*s.stride+idx] = T(imag(v))
		return
	}
	base := s.off + q*s.stride + 2*idx
	s.re[base] = T(real(v))
	s.re[base+1] = T(imag(v))
}

// tableAt reads an interleaved (re, im) twiddle entry, conjugating when
// requested.
func tableAt[T fftypes.Float](tw []T, scalarOff int, conj bool) complex128 {
	im := float64(tw[scalarOff+1])
	if conj {
		im = -im
	}
	return complex(float64(tw[scalarOff]), im)
}

// runStage drives one leaf DFT over every (problem, sub-batch) pair of the
// chunk's batch range. The stage's transform of length F is applied to
// elements idx = problem*F*B + i*B + b, i in [0, F) — sub-batch-strided
// for intermediate stages and contiguous (B = 1) for the final stage —
// and the inter-stage combination table is applied on the way out for
// every layout except Packed.
func runStage[T fftypes.Float](args device.StageArgs[T], dft func(x []complex128, conj bool)) error {
	st := args.Stage
	f := st.Length
	b := st.BatchSize
	problems := args.PaddedLength / (f * b)

	in := makeSpan(args.In, args.InImag, args.InOffset, args.InImagOff, args.InBatchStr)
	out := makeSpan(args.Out, args.OutImag, args.OutOffset, args.OutImagOff, args.OutBatchStr)
	tw := hostData(args.Twiddles)

	inLength := args.InLength
	if inLength == 0 {
		inLength = args.PaddedLength
	}
	outLength := args.OutLength
	if outLength == 0 {
		outLength = args.PaddedLength
	}

	work := make([]complex128, f)
	for q := args.Batch.Begin; q < args.Batch.End; q++ {
		for p := range problems {
			base := p * f * b
			for sub := range b {
				for i := range f {
					idx := base + i*b + sub
					var v complex128
					if idx < inLength {
						v = in.get(q, idx)
					}
					if args.LoadModOffset >= 0 {
						v *= tableAt(tw, args.LoadModOffset+2*idx, args.ConjugateMods)
					}
					work[i] = v
				}

				dft(work, args.Conjugate)

				for k := range f {
					v := work[k]
					switch {
					case args.StoreModOffset >= 0:
						// Chain output of a single-stage chain: k is the
						// natural frequency index.
						v *= tableAt(tw, args.StoreModOffset+2*k, args.ConjugateMods)
						v *= complex(args.StoreScale, 0)
					case args.Layout != fftypes.Packed:
						tidx := sub*f + k
						if st.Level == fftypes.Workitem {
							tidx = k*b + sub
						}
						v *= tableAt(tw, st.TwiddleOffset+2*tidx, args.Conjugate)
					}
					idx := base + k*b + sub
					if idx < outLength {
						out.set(q, idx, v)
					}
				}
			}
		}
	}

	return nil
}
