// Package device defines the device/queue abstraction the dispatch engine
// is written against: buffer allocation, asynchronous kernel submission
// with explicit event dependencies, and the execution surfaces for the
// leaf-level and transpose kernels.
//
// Real accelerator backends implement these interfaces; HostQueue is a
// CPU-backed mock device for development and tests.
package device

import "github.com/cwbudde/parfft/internal/fftypes"

// Profile describes the hardware the planner tunes launch geometry for.
type Profile struct {
	Name string

	// ComputeUnits is the number of parallel compute units; it caps the
	// total launched parallelism.
	ComputeUnits int

	// SubgroupSizes lists the supported subgroup widths, preferred first.
	SubgroupSizes []int

	// SubgroupsPerWorkgroup is the number of subgroups per workgroup used
	// when deriving local launch sizes.
	SubgroupsPerWorkgroup int

	// LocalMemBytes is the per-workgroup fast local memory capacity.
	LocalMemBytes int

	// L2CacheBytes bounds how many transform batches one inner pipeline
	// iteration may keep resident.
	L2CacheBytes int64
}

// SubgroupSize returns the preferred subgroup width.
func (p Profile) SubgroupSize() int {
	if len(p.SubgroupSizes) == 0 {
		return 1
	}
	return p.SubgroupSizes[0]
}

// Event is an opaque completion handle for an asynchronous device
// operation. It may be polled (Done/Err) or blocked upon (Wait).
type Event interface {
	// Done is closed when the operation has completed.
	Done() <-chan struct{}

	// Err returns the operation's error state: nil while in flight or on
	// success, non-nil once the operation has failed.
	Err() error

	// Wait blocks until completion and returns the error state.
	Wait() error
}

// Buffer is a device memory allocation measured in scalars of T.
type Buffer[T fftypes.Float] interface {
	// Len returns the buffer capacity in scalars.
	Len() int

	// Upload copies len(src) scalars from host to the start of the buffer.
	Upload(src []T) error

	// Download copies len(dst) scalars from the start of the buffer to host.
	Download(dst []T) error
}

// Queue is the device submission queue consumed by the core. All
// operations are asynchronous; ordering is expressed exclusively through
// the dependency lists, never by submission order.
type Queue[T fftypes.Float] interface {
	// Profile reports the device characteristics used for planning.
	Profile() Profile

	// Alloc reserves a device buffer of the given scalar count.
	Alloc(scalars int) (Buffer[T], error)

	// Free releases a buffer obtained from Alloc.
	Free(Buffer[T])

	// Submit schedules fn after deps have completed. The name is used for
	// tracing only.
	Submit(name string, deps []Event, fn func() error) Event

	// CopyIn copies src into dst at dstOff once deps have completed.
	CopyIn(dst Buffer[T], dstOff int, src []T, deps []Event) Event

	// CopyOut copies srcOff..srcOff+len(dst) of src into dst once deps
	// have completed.
	CopyOut(dst []T, src Buffer[T], srcOff int, deps []Event) Event

	// HostTask runs fn on the host after deps have completed. With a nil
	// fn it acts as a pure join of its dependencies.
	HostTask(deps []Event, fn func()) Event
}

// Runtime bundles the queue with the kernel execution surfaces selected
// at commit time.
type Runtime[T fftypes.Float] struct {
	Queue     Queue[T]
	Levels    map[fftypes.Level]LevelExecutor[T]
	Transpose TransposeExecutor[T]
}
