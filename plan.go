package parfft

import (
	"k8s.io/klog/v2"

	"github.com/cwbudde/parfft/device"
)

// Plan is an immutable, committed transform configuration: the stage
// chains, their finalized metadata, the precomputed twiddle buffer (owned
// exclusively by the Plan) and the two ping-pong scratch buffers borrowed
// by the executor. Only the scratch-buffer roles change during execution.
type Plan[T Float] struct {
	// CommittedLength is the requested transform length N.
	CommittedLength int

	// PaddedLength is the internal working length M: equal to N unless
	// the length is prime-embedded, in which case M >= 2N-1.
	PaddedLength int

	// IsPrime reports whether Bluestein embedding is active.
	IsPrime bool

	// Storage is the committed complex storage layout.
	Storage Storage

	// NumTransforms is the committed batch count.
	NumTransforms int

	// NumBatchesInL2 is the number of transform batches one inner
	// pipeline iteration processes, bounded by fast on-chip memory.
	NumBatchesInL2 int

	// ForwardStages and BackwardStages are the ordered stage chains;
	// BackwardStages is non-empty iff IsPrime.
	ForwardStages  []Stage
	BackwardStages []Stage

	// ForwardTransposes and BackwardTransposes hold one descriptor per
	// adjacent stage pair of the respective chain.
	ForwardTransposes  []TransposeDesc
	BackwardTransposes []TransposeDesc

	// TwiddleScalars is the total twiddle buffer size in scalars; a pure
	// function of (PaddedLength, stage levels, IsPrime).
	TwiddleScalars int

	// ScratchRequirement is the total byte size of the two ping-pong
	// scratch buffers.
	ScratchRequirement int

	rt device.Runtime[T]

	// Per-stage executors, selected once at commit (tagged-variant
	// dispatch; no per-call branching on Level).
	forwardExec  []device.LevelExecutor[T]
	backwardExec []device.LevelExecutor[T]

	twiddles   device.Buffer[T]
	scratch    [2]device.Buffer[T]
	imagOffset int // scalar offset of the imag plane within scratch (split storage)

	closed bool
}

// Close releases the twiddle buffer and the scratch pair. It must not be
// called while any execution chain is outstanding. Idempotent.
func (p *Plan[T]) Close() {
	if p == nil || p.closed {
		return
	}
	p.closed = true

	q := p.rt.Queue
	if p.twiddles != nil {
		q.Free(p.twiddles)
		p.twiddles = nil
	}
	for i, s := range p.scratch {
		if s != nil {
			q.Free(s)
			p.scratch[i] = nil
		}
	}

	klog.V(1).Infof("parfft: plan N=%d released", p.CommittedLength)
}

// stageExecutors resolves the executor for each stage of a chain from the
// runtime's level table.
func stageExecutors[T Float](rt device.Runtime[T], stages []Stage) []device.LevelExecutor[T] {
	execs := make([]device.LevelExecutor[T], len(stages))
	for i := range stages {
		execs[i] = rt.Levels[stages[i].Level]
	}
	return execs
}
