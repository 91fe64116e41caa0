package column

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// LimitedAllocator caps the bytes outstanding from an underlying allocator.
// Requests past the cap panic with *AllocationError; Split and friends recover
// that panic and return it as an error.
//
// A LimitedAllocator is not safe for concurrent use.
type LimitedAllocator struct {
	mem   memory.Allocator
	limit int
	inUse int
}

var _ memory.Allocator = (*LimitedAllocator)(nil)

// NewLimitedAllocator wraps mem with a cap of limit bytes.
func NewLimitedAllocator(mem memory.Allocator, limit int) *LimitedAllocator {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &LimitedAllocator{mem: mem, limit: limit}
}

// Allocate implements memory.Allocator.
func (a *LimitedAllocator) Allocate(size int) []byte {
	a.charge(size)
	return a.mem.Allocate(size)
}

// Reallocate implements memory.Allocator.
func (a *LimitedAllocator) Reallocate(size int, b []byte) []byte {
	a.charge(size - len(b))
	return a.mem.Reallocate(size, b)
}

// Free implements memory.Allocator.
func (a *LimitedAllocator) Free(b []byte) {
	a.inUse -= len(b)
	a.mem.Free(b)
}

// InUse returns the bytes currently outstanding.
func (a *LimitedAllocator) InUse() int {
	return a.inUse
}

func (a *LimitedAllocator) charge(delta int) {
	if delta > 0 && a.inUse+delta > a.limit {
		panic(&AllocationError{Requested: delta, InUse: a.inUse, Limit: a.limit})
	}
	a.inUse += delta
}

// recoverAllocation converts an allocation panic into *err.
// Any other panic is propagated.
func recoverAllocation(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ae, ok := r.(*AllocationError); ok {
		*err = ae
		return
	}
	panic(r)
}
