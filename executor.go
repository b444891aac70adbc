package parfft

import (
	"k8s.io/klog/v2"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
)

// dataLoc addresses one operand region: the buffer(s), the scalar base
// offsets (with any global batch offset already folded in) and the scalar
// stride between consecutive transforms. imag is nil for interleaved
// storage.
type dataLoc[T Float] struct {
	buf     device.Buffer[T]
	imag    device.Buffer[T]
	off     int
	imagOff int
	stride  int
}

// scratchLoc addresses ping-pong scratch buffer i. Interleaved scratch
// strides 2M scalars per transform; split scratch keeps the real plane at
// the front and the imaginary plane at the half-way point.
func (p *Plan[T]) scratchLoc(i int) dataLoc[T] {
	if p.Storage == fftypes.SplitComplex {
		return dataLoc[T]{
			buf:     p.scratch[i],
			imag:    p.scratch[i],
			imagOff: p.imagOffset,
			stride:  p.PaddedLength,
		}
	}
	return dataLoc[T]{buf: p.scratch[i], stride: 2 * p.PaddedLength}
}

// userLoc addresses a caller-provided buffer pair starting at the given
// global transform index.
func (p *Plan[T]) userLoc(buf, imag device.Buffer[T], globalBatch int) dataLoc[T] {
	n := p.CommittedLength
	if p.Storage == fftypes.SplitComplex {
		return dataLoc[T]{buf: buf, imag: imag, off: n * globalBatch, imagOff: n * globalBatch, stride: n}
	}
	return dataLoc[T]{buf: buf, off: 2 * n * globalBatch, stride: 2 * n}
}

// chainParams parameterizes one pass of runChain over a chunk's batches.
type chainParams[T Float] struct {
	src dataLoc[T]
	// dst receives the chain's final, naturally-ordered output; nil leaves
	// the (padded, permuted-unwound) result in a scratch buffer instead.
	dst *dataLoc[T]

	conj     bool
	conjMods bool

	// loadMod is the scalar twiddle offset of a per-element multiplier
	// applied while the first stage reads, or -1.
	loadMod int

	// storeMod/storeScale are applied by the chain's final operation, or
	// -1. Requires dst.
	storeMod   int
	storeScale float64

	// inLength clamps the first stage's per-transform read; 0 means the
	// full padded length.
	inLength int

	// outLength truncates the final per-transform write; 0 means the full
	// padded length. Requires dst.
	outLength int

	// firstScratch selects which ping-pong buffer the first intermediate
	// write lands in.
	firstScratch int

	batch device.BatchRange
	deps  []device.Event
}

// runChain issues one stage chain followed by its unwind transposes for a
// single chunk. Ordering is expressed purely through events: each
// operation depends on the previous one. It returns the chain's final
// event and, when dst is nil, the scratch index holding the result.
func (p *Plan[T]) runChain(stages []fftypes.Stage, execs []device.LevelExecutor[T], descs []fftypes.TransposeDesc, cp chainParams[T]) (device.Event, int) {
	q := p.rt.Queue
	k := len(stages)
	cur := cp.src
	scratchIdx := cp.firstScratch
	held := -1
	prev := cp.deps

	// target returns where the next unwind pass writes: the caller's dst
	// for the last pass, the other scratch buffer otherwise.
	target := func(last bool) dataLoc[T] {
		if last && cp.dst != nil {
			return *cp.dst
		}
		loc := p.scratchLoc(scratchIdx)
		held = scratchIdx
		scratchIdx = 1 - scratchIdx
		return loc
	}

	// Stage 0 lands in scratch (or directly in dst for a single-stage
	// chain); later stages update that scratch buffer in place. Each leaf
	// work unit writes exactly the elements it read.
	for i := range stages {
		last := i == k-1 && len(descs) == 0
		var out dataLoc[T]
		switch {
		case last && cp.dst != nil:
			out = *cp.dst
		case i == 0:
			out = p.scratchLoc(cp.firstScratch)
			held = cp.firstScratch
			scratchIdx = 1 - cp.firstScratch
		default:
			out = cur
		}

		args := device.StageArgs[T]{
			Stage:           &stages[i],
			Storage:         p.Storage,
			Layout:          fftypes.BatchInterleaved,
			Conjugate:       cp.conj,
			ConjugateMods:   cp.conjMods,
			CommittedLength: p.CommittedLength,
			PaddedLength:    p.PaddedLength,
			In:              cur.buf,
			InOffset:        cur.off,
			InImag:          cur.imag,
			InImagOff:       cur.imagOff,
			InBatchStr:      cur.stride,
			Out:             out.buf,
			OutOffset:       out.off,
			OutImag:         out.imag,
			OutImagOff:      out.imagOff,
			OutBatchStr:     out.stride,
			Twiddles:        p.twiddles,
			LoadModOffset:   -1,
			StoreModOffset:  -1,
			Batch:           cp.batch,
		}
		if i == k-1 {
			// The last stage has no inter-stage combination table.
			args.Layout = fftypes.Packed
		}
		if i == 0 {
			args.LoadModOffset = cp.loadMod
			args.InLength = cp.inLength
		}
		if last {
			args.StoreModOffset = cp.storeMod
			args.StoreScale = cp.storeScale
			args.OutLength = cp.outLength
		}

		ev := execs[i].Execute(q, args, prev)
		prev = []device.Event{ev}
		cur = out
	}

	// Unwind the digit permutation pairwise: innermost descriptor first,
	// the outermost one writing the chain's destination.
	for t := len(descs) - 1; t >= 0; t-- {
		last := t == 0
		out := target(last)

		args := device.TransposeArgs[T]{
			In:          cur.buf,
			InOffset:    cur.off,
			InImag:      cur.imag,
			InImagOff:   cur.imagOff,
			InBatchStr:  cur.stride,
			Out:         out.buf,
			OutOffset:   out.off,
			OutImag:     out.imag,
			OutImagOff:  out.imagOff,
			OutBatchStr: out.stride,
			ElemWidth:   2,
			Twiddles:    p.twiddles,

			StoreModOffset: -1,
			Batch:          cp.batch,
		}
		if last {
			args.OutLength = cp.outLength
			args.StoreModOffset = cp.storeMod
			args.StoreScale = cp.storeScale
			args.ConjugateMods = cp.conjMods
		}

		if p.Storage == fftypes.SplitComplex && args.StoreModOffset < 0 {
			// Plain split-storage passes move each plane independently.
			re, im := args, args
			re.ElemWidth = 1
			re.InImag, re.OutImag = nil, nil
			im.ElemWidth = 1
			im.In, im.InOffset = args.InImag, args.InImagOff
			im.Out, im.OutOffset = args.OutImag, args.OutImagOff
			im.InImag, im.OutImag = nil, nil
			evRe := p.rt.Transpose.Execute(q, descs[t], re, prev)
			evIm := p.rt.Transpose.Execute(q, descs[t], im, prev)
			prev = []device.Event{evRe, evIm}
		} else {
			if p.Storage == fftypes.SplitComplex {
				// The modifier multiply couples the planes; one pass
				// carries both.
				args.ElemWidth = 1
			}
			ev := p.rt.Transpose.Execute(q, descs[t], args, prev)
			prev = []device.Event{ev}
		}
		cur = out
	}

	join := q.HostTask(prev, nil)
	return join, held
}

// run executes the committed transform over batches transforms,
// chunked so at most NumBatchesInL2 of them are in flight at once. Chunks
// are strictly sequential; the returned event completes when every chunk
// has.
func (p *Plan[T]) run(dir fftypes.Direction, in, inImag, out, outImag device.Buffer[T], batches int, deps []device.Event) device.Event {
	q := p.rt.Queue
	m := p.PaddedLength
	backward := dir == fftypes.Backward

	var joins []device.Event
	prev := deps
	for g0 := 0; g0 < batches; g0 += p.NumBatchesInL2 {
		cb := min(p.NumBatchesInL2, batches-g0)
		batch := device.BatchRange{Begin: 0, End: cb}
		srcLoc := p.userLoc(in, inImag, g0)
		dstLoc := p.userLoc(out, outImag, g0)

		var final device.Event
		if !p.IsPrime {
			final, _ = p.runChain(p.ForwardStages, p.forwardExec, p.ForwardTransposes, chainParams[T]{
				src:       srcLoc,
				dst:       &dstLoc,
				conj:      backward,
				loadMod:   -1,
				storeMod:  -1,
				inLength:  p.CommittedLength,
				outLength: p.CommittedLength,
				batch:     batch,
				deps:      prev,
			})
		} else {
			// Bluestein convolution: forward chain of the zero-padded,
			// chirp-modulated input, then the completing chain applying the
			// spectrum pointwise and demodulating into the caller's output.
			fwdEv, held := p.runChain(p.ForwardStages, p.forwardExec, p.ForwardTransposes, chainParams[T]{
				src:      srcLoc,
				conj:     backward,
				conjMods: backward,
				loadMod:  2 * m, // chirp signal c
				storeMod: -1,
				inLength: p.CommittedLength,
				batch:    batch,
				deps:     prev,
			})
			scr := p.scratchLoc(held)
			final, _ = p.runChain(p.BackwardStages, p.backwardExec, p.BackwardTransposes, chainParams[T]{
				src:          scr,
				dst:          &dstLoc,
				conj:         !backward,
				conjMods:     backward,
				loadMod:      0,     // chirp spectrum G
				storeMod:     2 * m, // chirp signal c
				storeScale:   1 / float64(m),
				outLength:    p.CommittedLength,
				firstScratch: 1 - held,
				batch:        batch,
				deps:         []device.Event{fwdEv},
			})
		}

		join := q.HostTask([]device.Event{final}, nil)
		joins = append(joins, join)
		prev = []device.Event{join}
	}

	klog.V(2).Infof("parfft: dispatched %d batches in %d chunk(s), N=%d", batches, len(joins), p.CommittedLength)
	return q.HostTask(joins, nil)
}
