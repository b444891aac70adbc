package parfft

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/cwbudde/parfft/device"
)

// Config describes one transform problem to commit: the length of each
// transform, how many of them a full Execute processes, and the complex
// storage layout of the caller's buffers.
type Config struct {
	Length        int
	NumTransforms int
	Storage       Storage
}

// Descriptor is a committed transform: the immutable Plan plus the
// per-descriptor execution state. A descriptor admits one in-flight
// Execute at a time; callers needing overlap commit multiple descriptors.
type Descriptor[T Float] struct {
	cfg  Config
	plan *Plan[T]

	inFlight atomic.Bool
}

// ExecuteParams carries one Execute invocation. Input and Output may alias
// for in-place operation. With split storage the imaginary planes travel
// in InputImag/OutputImag; interleaved storage leaves them nil.
type ExecuteParams[T Float] struct {
	Direction Direction

	Input      device.Buffer[T]
	Output     device.Buffer[T]
	InputImag  device.Buffer[T]
	OutputImag device.Buffer[T]

	// Batches is the number of transforms to process; 0 means the
	// committed NumTransforms.
	Batches int

	// Deps are events the first chunk waits for (typically the upload of
	// Input).
	Deps []device.Event
}

func elemSize[T Float]() int {
	var zero T
	switch any(zero).(type) {
	case float32:
		return 4
	default:
		return 8
	}
}

// Commit validates the configuration, plans the decomposition, finalizes
// launch geometry against the runtime's device profile, and allocates and
// populates the twiddle and scratch buffers. On any error nothing is left
// allocated and the returned descriptor is nil.
func Commit[T Float](cfg Config, rt device.Runtime[T]) (*Descriptor[T], error) {
	if rt.Queue == nil || rt.Transpose == nil || len(rt.Levels) == 0 {
		return nil, ErrIncompleteRuntime
	}
	if cfg.NumTransforms < 1 {
		return nil, errors.WithMessagef(ErrInvalidBatchCount, "committing %d transforms", cfg.NumTransforms)
	}
	if cfg.Storage != InterleavedComplex && cfg.Storage != SplitComplex {
		return nil, ErrUnsupportedStorage
	}

	profile := rt.Queue.Profile()
	if profile.ComputeUnits < 1 || profile.SubgroupsPerWorkgroup < 1 || profile.SubgroupSize() < 1 {
		return nil, errors.WithMessagef(ErrIncompleteRuntime, "profile %q reports no launch capacity", profile.Name)
	}
	padded, isPrime, fwd, bwd, fwdT, bwdT, err := planStructure(cfg.Length, profile.SubgroupSize())
	if err != nil {
		return nil, errors.WithMessagef(err, "length %d", cfg.Length)
	}
	for i := range fwd {
		if rt.Levels[fwd[i].Level] == nil {
			return nil, errors.WithMessagef(ErrIncompleteRuntime, "no executor for %s stages", fwd[i].Level)
		}
	}

	chunk := batchesInL2(int(profile.L2CacheBytes), padded, elemSize[T](), cfg.NumTransforms)
	twScalars := twiddleLayout(fwd, bwd, padded, isPrime)
	finalizeLaunch(fwd, profile, padded, chunk)
	finalizeLaunch(bwd, profile, padded, chunk)

	q := rt.Queue
	twBuf, err := q.Alloc(twScalars)
	if err != nil {
		return nil, errors.WithMessagef(ErrResourceExhausted, "twiddle buffer of %d scalars: %v", twScalars, err)
	}
	image := make([]T, twScalars)
	populateTwiddles(image, fwd, bwd, cfg.Length, padded, isPrime)
	if err := twBuf.Upload(image); err != nil {
		q.Free(twBuf)
		return nil, errors.WithMessagef(ErrResourceExhausted, "twiddle upload: %v", err)
	}

	scratchScalars := 2 * padded * chunk
	var scratch [2]device.Buffer[T]
	for i := range scratch {
		scratch[i], err = q.Alloc(scratchScalars)
		if err != nil {
			if scratch[0] != nil {
				q.Free(scratch[0])
			}
			q.Free(twBuf)
			return nil, errors.WithMessagef(ErrResourceExhausted, "scratch buffer of %d scalars: %v", scratchScalars, err)
		}
	}

	p := &Plan[T]{
		CommittedLength:    cfg.Length,
		PaddedLength:       padded,
		IsPrime:            isPrime,
		Storage:            cfg.Storage,
		NumTransforms:      cfg.NumTransforms,
		NumBatchesInL2:     chunk,
		ForwardStages:      fwd,
		BackwardStages:     bwd,
		ForwardTransposes:  fwdT,
		BackwardTransposes: bwdT,
		TwiddleScalars:     twScalars,
		ScratchRequirement: 2 * scratchScalars * elemSize[T](),
		rt:                 rt,
		forwardExec:        stageExecutors(rt, fwd),
		backwardExec:       stageExecutors(rt, bwd),
		twiddles:           twBuf,
		scratch:            scratch,
		imagOffset:         padded * chunk,
	}

	klog.V(1).Infof("parfft: committed N=%d M=%d prime=%v stages=%d chunk=%d on %s",
		cfg.Length, padded, isPrime, len(fwd), chunk, profile.Name)

	return &Descriptor[T]{cfg: cfg, plan: p}, nil
}

// Plan exposes the committed plan for inspection. The returned value must
// be treated as read-only.
func (d *Descriptor[T]) Plan() *Plan[T] { return d.plan }

// checkBuffers validates one side's buffer pair against the requested
// batch count.
func (d *Descriptor[T]) checkBuffers(buf, imag device.Buffer[T], batches int, side string) error {
	n := d.cfg.Length
	if d.cfg.Storage == SplitComplex {
		if buf == nil || imag == nil {
			return errors.WithMessagef(ErrBufferTooSmall, "%s: split storage requires both planes", side)
		}
		if buf.Len() < n*batches || imag.Len() < n*batches {
			return errors.WithMessagef(ErrBufferTooSmall, "%s: %d batches need %d scalars per plane", side, batches, n*batches)
		}
		return nil
	}
	if buf == nil {
		return errors.WithMessagef(ErrBufferTooSmall, "%s buffer is nil", side)
	}
	if buf.Len() < 2*n*batches {
		return errors.WithMessagef(ErrBufferTooSmall, "%s: %d batches need %d scalars, buffer has %d", side, batches, 2*n*batches, buf.Len())
	}
	return nil
}

// Execute schedules the full multi-stage pipeline asynchronously and
// returns its completion event. The descriptor's scratch is exclusive to
// one invocation; overlapping calls fail with ErrConcurrentExecution.
func (d *Descriptor[T]) Execute(params ExecuteParams[T]) (device.Event, error) {
	if d == nil || d.plan == nil || d.plan.closed {
		return nil, ErrUncommitted
	}

	batches := params.Batches
	if batches == 0 {
		batches = d.cfg.NumTransforms
	}
	if batches < 0 || batches > d.cfg.NumTransforms {
		return nil, errors.WithMessagef(ErrInvalidBatchCount, "%d of committed %d", params.Batches, d.cfg.NumTransforms)
	}
	if err := d.checkBuffers(params.Input, params.InputImag, batches, "input"); err != nil {
		return nil, err
	}
	if err := d.checkBuffers(params.Output, params.OutputImag, batches, "output"); err != nil {
		return nil, err
	}

	if !d.inFlight.CompareAndSwap(false, true) {
		return nil, ErrConcurrentExecution
	}

	// The guard must release on failure too. A task gated on the pipeline
	// event would be skipped when that event carries an error, so wait
	// inside an ungated submission and clear the flag unconditionally
	// before completing.
	ev := d.plan.run(params.Direction, params.Input, params.InputImag, params.Output, params.OutputImag, batches, params.Deps)
	return d.plan.rt.Queue.Submit("execute-finish", nil, func() error {
		err := ev.Wait()
		d.inFlight.Store(false)
		return err
	}), nil
}

// Close releases the descriptor's device resources. It must not be called
// with an Execute in flight. Idempotent.
func (d *Descriptor[T]) Close() {
	if d == nil || d.plan == nil {
		return
	}
	d.plan.Close()
}
