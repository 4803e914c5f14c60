// Package allocator keeps the books for every block of memory owned through
// the object model. Go reclaims the memory itself; the allocator records who
// owns what so that leaks, double frees and exhaustion are observable.
package allocator

import (
	"fmt"
	"sync"
)

// Handle identifies one live allocation. The zero Handle is never issued.
type Handle uint64

var (
	mu         sync.Mutex
	blocks     = map[Handle]uintptr{}
	next       Handle
	inUse      uintptr
	limit      uintptr
	numAllocas uint64
)

// OutOfMemoryError is raised when an allocation would exceed the limit set
// with SetLimit.
type OutOfMemoryError struct {
	Requested uintptr
	InUse     uintptr
	Limit     uintptr
}

func (*OutOfMemoryError) RuntimeError() {}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("allocator: out of memory (requested %d bytes, %d of %d in use)", e.Requested, e.InUse, e.Limit)
}

// BadFreeError is raised when a handle is freed twice or was never issued.
type BadFreeError struct {
	Handle Handle
}

func (*BadFreeError) RuntimeError() {}

func (e *BadFreeError) Error() string {
	if e.Handle == 0 {
		return "allocator: free of nil handle"
	}
	return fmt.Sprintf("allocator: double free of block %d", e.Handle)
}

// Alloc records a new block of size bytes. It panics with *OutOfMemoryError
// when the limit would be exceeded.
func Alloc(size uintptr) Handle {
	mu.Lock()
	defer mu.Unlock()
	return alloc(size)
}

func alloc(size uintptr) Handle {
	if limit != 0 && inUse+size > limit {
		panic(&OutOfMemoryError{Requested: size, InUse: inUse, Limit: limit})
	}
	next++
	blocks[next] = size
	inUse += size
	numAllocas++
	return next
}

// Realloc resizes the block h. The returned handle replaces h, which must not
// be used again.
func Realloc(h Handle, size uintptr) Handle {
	mu.Lock()
	defer mu.Unlock()

	old, ok := blocks[h]
	if !ok {
		panic(&BadFreeError{Handle: h})
	}

	// Check against the limit as if the old block were already released
	if limit != 0 && inUse-old+size > limit {
		panic(&OutOfMemoryError{Requested: size, InUse: inUse, Limit: limit})
	}
	delete(blocks, h)
	inUse -= old
	return alloc(size)
}

// Free releases the block h. It panics with *BadFreeError when h is not live.
func Free(h Handle) {
	mu.Lock()
	defer mu.Unlock()

	size, ok := blocks[h]
	if !ok {
		panic(&BadFreeError{Handle: h})
	}
	delete(blocks, h)
	inUse -= size
}

// Size returns the size of the live block h, or 0 when h is not live.
func Size(h Handle) uintptr {
	mu.Lock()
	defer mu.Unlock()
	return blocks[h]
}

// Live returns the number of blocks that have not been freed.
func Live() int {
	mu.Lock()
	defer mu.Unlock()
	return len(blocks)
}

// InUse returns the number of bytes held by live blocks.
func InUse() uintptr {
	mu.Lock()
	defer mu.Unlock()
	return inUse
}

// Allocations returns the number of allocations made since start-up.
func Allocations() uint64 {
	mu.Lock()
	defer mu.Unlock()
	return numAllocas
}

// SetLimit caps the number of bytes that may be in use at once and returns
// the previous cap. Zero removes the cap.
func SetLimit(n uintptr) uintptr {
	mu.Lock()
	defer mu.Unlock()
	prev := limit
	limit = n
	return prev
}
