package device

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/cwbudde/parfft/internal/cpu"
	"github.com/cwbudde/parfft/internal/fftypes"
)

// hostEvent is the completion handle for host-simulated operations.
type hostEvent struct {
	done chan struct{}
	err  error
}

func newHostEvent() *hostEvent {
	return &hostEvent{done: make(chan struct{})}
}

func (e *hostEvent) Done() <-chan struct{} { return e.done }

func (e *hostEvent) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}

func (e *hostEvent) Wait() error {
	<-e.done
	return e.err
}

// HostBuffer is the host queue's buffer implementation. Data exposes the
// backing slice so the reference kernels can execute directly on it.
type HostBuffer[T fftypes.Float] struct {
	data []T
}

func (b *HostBuffer[T]) Len() int { return len(b.data) }

// Data returns the backing slice. Only meaningful for host buffers; real
// device buffers have no host-visible storage.
func (b *HostBuffer[T]) Data() []T { return b.data }

func (b *HostBuffer[T]) Upload(src []T) error {
	if len(src) > len(b.data) {
		return errors.Errorf("device: upload of %d scalars into buffer of %d", len(src), len(b.data))
	}
	copy(b.data, src)
	return nil
}

func (b *HostBuffer[T]) Download(dst []T) error {
	if len(dst) > len(b.data) {
		return errors.Errorf("device: download of %d scalars from buffer of %d", len(dst), len(b.data))
	}
	copy(dst, b.data)
	return nil
}

// HostQueue is a CPU-backed mock device for development and tests. It
// satisfies Queue but executes submissions on goroutines, joining
// dependency events exactly like a device scheduler would, including
// error propagation through the event chain.
type HostQueue[T fftypes.Float] struct {
	profile Profile

	mu        sync.Mutex
	allocated int64
	budget    int64 // bytes; 0 = unlimited
}

// HostOption configures a HostQueue.
type HostOption func(*hostConfig)

type hostConfig struct {
	profile     *Profile
	budgetBytes int64
}

// WithProfile overrides the detected host profile.
func WithProfile(p Profile) HostOption {
	return func(c *hostConfig) { c.profile = &p }
}

// WithAllocBudget caps total live allocations, to exercise
// resource-exhaustion paths.
func WithAllocBudget(bytes int64) HostOption {
	return func(c *hostConfig) { c.budgetBytes = bytes }
}

// HostProfile derives a device profile from the host CPU: compute units
// from the scheduler parallelism, subgroup width from the SIMD lane count.
func HostProfile() Profile {
	features := cpu.DetectFeatures()
	return Profile{
		Name:                  "host/" + features.Architecture,
		ComputeUnits:          runtime.NumCPU(),
		SubgroupSizes:         []int{features.SubgroupWidth()},
		SubgroupsPerWorkgroup: 2,
		LocalMemBytes:         64 << 10,
		L2CacheBytes:          4 << 20,
	}
}

// NewHostQueue returns a host queue with the detected (or overridden)
// profile.
func NewHostQueue[T fftypes.Float](opts ...HostOption) *HostQueue[T] {
	var cfg hostConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	profile := HostProfile()
	if cfg.profile != nil {
		profile = *cfg.profile
	}

	return &HostQueue[T]{profile: profile, budget: cfg.budgetBytes}
}

func (q *HostQueue[T]) Profile() Profile { return q.profile }

// AllocatedBytes reports the currently live allocation total.
func (q *HostQueue[T]) AllocatedBytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.allocated
}

func (q *HostQueue[T]) Alloc(scalars int) (Buffer[T], error) {
	if scalars < 0 {
		return nil, errors.Errorf("device: negative allocation of %d scalars", scalars)
	}

	var zero T
	bytes := int64(scalars) * int64(scalarSize(zero))

	q.mu.Lock()
	if q.budget > 0 && q.allocated+bytes > q.budget {
		q.mu.Unlock()
		return nil, errors.Errorf("device: allocation of %d bytes exceeds budget (%d of %d in use)",
			bytes, q.allocated, q.budget)
	}
	q.allocated += bytes
	q.mu.Unlock()

	return &HostBuffer[T]{data: make([]T, scalars)}, nil
}

func (q *HostQueue[T]) Free(b Buffer[T]) {
	hb, ok := b.(*HostBuffer[T])
	if !ok || hb.data == nil {
		return
	}

	var zero T
	q.mu.Lock()
	q.allocated -= int64(len(hb.data)) * int64(scalarSize(zero))
	q.mu.Unlock()
	hb.data = nil
}

func (q *HostQueue[T]) Submit(name string, deps []Event, fn func() error) Event {
	ev := newHostEvent()
	go func() {
		defer close(ev.done)
		for _, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Wait(); err != nil {
				ev.err = errors.WithMessagef(err, "device: %s skipped, dependency failed", name)
				return
			}
		}
		if fn != nil {
			ev.err = fn()
		}
	}()

	return ev
}

func (q *HostQueue[T]) CopyIn(dst Buffer[T], dstOff int, src []T, deps []Event) Event {
	return q.Submit("copy-in", deps, func() error {
		hb, ok := dst.(*HostBuffer[T])
		if !ok {
			return errors.Errorf("device: copy-in into foreign buffer %T", dst)
		}
		if dstOff < 0 || dstOff+len(src) > len(hb.data) {
			return errors.Errorf("device: copy-in of %d scalars at %d overflows buffer of %d",
				len(src), dstOff, len(hb.data))
		}
		copy(hb.data[dstOff:], src)
		return nil
	})
}

func (q *HostQueue[T]) CopyOut(dst []T, src Buffer[T], srcOff int, deps []Event) Event {
	return q.Submit("copy-out", deps, func() error {
		hb, ok := src.(*HostBuffer[T])
		if !ok {
			return errors.Errorf("device: copy-out from foreign buffer %T", src)
		}
		if srcOff < 0 || srcOff+len(dst) > len(hb.data) {
			return errors.Errorf("device: copy-out of %d scalars at %d overflows buffer of %d",
				len(dst), srcOff, len(hb.data))
		}
		copy(dst, hb.data[srcOff:])
		return nil
	})
}

func (q *HostQueue[T]) HostTask(deps []Event, fn func()) Event {
	return q.Submit("host-task", deps, func() error {
		if fn != nil {
			fn()
		}
		return nil
	})
}

func scalarSize[T fftypes.Float](zero T) int {
	switch any(zero).(type) {
	case float32:
		return 4
	default:
		return 8
	}
}
