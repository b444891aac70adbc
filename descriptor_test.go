package parfft

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
	"github.com/cwbudde/parfft/kernels"
)

func hostRuntime(t *testing.T, opts ...device.HostOption) (*device.HostQueue[float64], device.Runtime[float64]) {
	t.Helper()
	q := device.NewHostQueue[float64](append([]device.HostOption{device.WithProfile(testProfile())}, opts...)...)
	return q, kernels.NewHostRuntime(q)
}

func TestCommitConfigurationErrors(t *testing.T) {
	t.Parallel()

	_, rt := hostRuntime(t)

	_, err := Commit(Config{Length: 1, NumTransforms: 1, Storage: InterleavedComplex}, rt)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = Commit(Config{Length: 2062, NumTransforms: 1, Storage: InterleavedComplex}, rt)
	assert.ErrorIs(t, err, ErrNotFactorizable)

	_, err = Commit(Config{Length: 8, NumTransforms: 0, Storage: InterleavedComplex}, rt)
	assert.ErrorIs(t, err, ErrInvalidBatchCount)

	_, err = Commit(Config{Length: 8, NumTransforms: 1, Storage: Storage(7)}, rt)
	assert.ErrorIs(t, err, ErrUnsupportedStorage)

	for _, err := range []error{ErrInvalidLength, ErrNotFactorizable, ErrInvalidBatchCount, ErrUnsupportedStorage, ErrIncompleteRuntime} {
		assert.True(t, IsConfiguration(err))
	}
	assert.False(t, IsConfiguration(ErrResourceExhausted))
}

func TestCommitIncompleteRuntime(t *testing.T) {
	t.Parallel()

	q, _ := hostRuntime(t)
	cfg := Config{Length: 8, NumTransforms: 1, Storage: InterleavedComplex}

	_, err := Commit(cfg, device.Runtime[float64]{})
	assert.ErrorIs(t, err, ErrIncompleteRuntime)

	partial := device.Runtime[float64]{
		Queue:     q,
		Levels:    map[fftypes.Level]device.LevelExecutor[float64]{fftypes.Workgroup: kernels.WorkgroupKernel[float64]{}},
		Transpose: kernels.TransposeKernel[float64]{},
	}
	_, err = Commit(cfg, partial)
	assert.ErrorIs(t, err, ErrIncompleteRuntime, "length 8 plans a workitem stage")
}

func TestCommitRejectsDegenerateProfile(t *testing.T) {
	t.Parallel()

	cfg := Config{Length: 8, NumTransforms: 1, Storage: InterleavedComplex}

	noUnits := testProfile()
	noUnits.ComputeUnits = 0
	_, rt := hostRuntime(t, device.WithProfile(noUnits))
	_, err := Commit(cfg, rt)
	assert.ErrorIs(t, err, ErrIncompleteRuntime)

	noSubgroups := testProfile()
	noSubgroups.SubgroupsPerWorkgroup = 0
	_, rt = hostRuntime(t, device.WithProfile(noSubgroups))
	_, err = Commit(cfg, rt)
	assert.ErrorIs(t, err, ErrIncompleteRuntime)
}

func TestCommitAllocFailureCleansUp(t *testing.T) {
	t.Parallel()

	// 2048 fails already on the twiddle image; 8 has no twiddle tables at
	// all and fails on the scratch pair instead.
	for _, cfg := range []Config{
		{Length: 2048, NumTransforms: 4, Storage: InterleavedComplex},
		{Length: 8, NumTransforms: 64, Storage: InterleavedComplex},
	} {
		q, rt := hostRuntime(t, device.WithAllocBudget(1<<10))

		_, err := Commit(cfg, rt)
		require.Error(t, err, "length %d", cfg.Length)
		assert.ErrorIs(t, err, ErrResourceExhausted)
		assert.True(t, IsResourceExhaustion(err))
		assert.Zero(t, q.AllocatedBytes(), "a failed commit must free everything it allocated")
	}
}

func TestCommitPlanIntrospection(t *testing.T) {
	t.Parallel()

	q, rt := hostRuntime(t)
	desc, err := Commit(Config{Length: 2048, NumTransforms: 4, Storage: InterleavedComplex}, rt)
	require.NoError(t, err)
	defer desc.Close()

	p := desc.Plan()
	assert.Equal(t, 2048, p.CommittedLength)
	assert.Equal(t, 2048, p.PaddedLength)
	assert.False(t, p.IsPrime)
	assert.Len(t, p.ForwardStages, 2)
	assert.Len(t, p.ForwardTransposes, 1)
	assert.Equal(t, fftypes.Workgroup, p.ForwardStages[0].Level)
	assert.Equal(t, fftypes.Workitem, p.ForwardStages[1].Level)
	assert.Equal(t, 4, p.NumBatchesInL2)
	assert.Equal(t, 2*2*2048*4*8, p.ScratchRequirement)
	assert.Positive(t, q.AllocatedBytes())
}

func TestExecuteValidation(t *testing.T) {
	t.Parallel()

	q, rt := hostRuntime(t)
	desc, err := Commit(Config{Length: 16, NumTransforms: 2, Storage: InterleavedComplex}, rt)
	require.NoError(t, err)
	defer desc.Close()

	ok, err := q.Alloc(2 * 16 * 2)
	require.NoError(t, err)
	short, err := q.Alloc(16)
	require.NoError(t, err)

	_, err = desc.Execute(ExecuteParams[float64]{Input: ok, Output: ok, Batches: 3})
	assert.ErrorIs(t, err, ErrInvalidBatchCount)

	_, err = desc.Execute(ExecuteParams[float64]{Input: short, Output: ok})
	assert.ErrorIs(t, err, ErrBufferTooSmall)

	_, err = desc.Execute(ExecuteParams[float64]{Input: ok, Output: short})
	assert.ErrorIs(t, err, ErrBufferTooSmall)

	_, err = desc.Execute(ExecuteParams[float64]{Output: ok})
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestExecuteSplitRequiresBothPlanes(t *testing.T) {
	t.Parallel()

	q, rt := hostRuntime(t)
	desc, err := Commit(Config{Length: 16, NumTransforms: 1, Storage: SplitComplex}, rt)
	require.NoError(t, err)
	defer desc.Close()

	plane, err := q.Alloc(16)
	require.NoError(t, err)

	_, err = desc.Execute(ExecuteParams[float64]{
		Input:  plane,
		Output: plane, OutputImag: plane,
	})
	assert.ErrorIs(t, err, ErrBufferTooSmall, "missing imaginary input plane")
}

func TestExecuteAfterCloseFails(t *testing.T) {
	t.Parallel()

	q, rt := hostRuntime(t)
	desc, err := Commit(Config{Length: 16, NumTransforms: 1, Storage: InterleavedComplex}, rt)
	require.NoError(t, err)

	buf, err := q.Alloc(32)
	require.NoError(t, err)

	desc.Close()
	desc.Close() // idempotent
	assert.Zero(t, q.AllocatedBytes()-int64(32*8), "close releases twiddles and scratch")

	_, err = desc.Execute(ExecuteParams[float64]{Input: buf, Output: buf})
	assert.ErrorIs(t, err, ErrUncommitted)
}

func TestExecuteRejectsOverlap(t *testing.T) {
	t.Parallel()

	q, rt := hostRuntime(t)
	desc, err := Commit(Config{Length: 16, NumTransforms: 1, Storage: InterleavedComplex}, rt)
	require.NoError(t, err)
	defer desc.Close()

	in, err := q.Alloc(32)
	require.NoError(t, err)
	out, err := q.Alloc(32)
	require.NoError(t, err)

	// Hold the pipeline behind a gate so the first invocation is still in
	// flight when the second arrives.
	gate := make(chan struct{})
	gateEv := q.Submit("gate", nil, func() error {
		<-gate
		return nil
	})

	first, err := desc.Execute(ExecuteParams[float64]{
		Input:  in,
		Output: out,
		Deps:   []device.Event{gateEv},
	})
	require.NoError(t, err)

	_, err = desc.Execute(ExecuteParams[float64]{Input: in, Output: out})
	assert.ErrorIs(t, err, ErrConcurrentExecution)

	close(gate)
	require.NoError(t, first.Wait())

	// The guard is released with the completion event.
	second, err := desc.Execute(ExecuteParams[float64]{Input: in, Output: out})
	require.NoError(t, err)
	require.NoError(t, second.Wait())
}

func TestExecuteReissueAfterFailedRun(t *testing.T) {
	t.Parallel()

	q, rt := hostRuntime(t)
	desc, err := Commit(Config{Length: 8, NumTransforms: 1, Storage: InterleavedComplex}, rt)
	require.NoError(t, err)
	defer desc.Close()

	in, err := q.Alloc(16)
	require.NoError(t, err)
	out, err := q.Alloc(16)
	require.NoError(t, err)

	failed := q.Submit("fault", nil, func() error {
		return errors.New("injected device fault")
	})

	first, err := desc.Execute(ExecuteParams[float64]{
		Input:  in,
		Output: out,
		Deps:   []device.Event{failed},
	})
	require.NoError(t, err)
	require.Error(t, first.Wait(), "the dependency failure must surface on the pipeline event")

	// The guard is released even though the run failed.
	second, err := desc.Execute(ExecuteParams[float64]{Input: in, Output: out})
	require.NoError(t, err, "descriptor must accept a reissued execution")
	require.NoError(t, second.Wait())
}
