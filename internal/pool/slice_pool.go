package pool

import "sync"

// Typed slice pools used by cold analytics paths that need temporary columns.
var (
	float64SlicePool = sync.Pool{
		New: func() any { return &[]float64{} },
	}
	float32SlicePool = sync.Pool{
		New: func() any { return &[]float32{} },
	}
)

// GetFloat64Slice returns a float64 slice of length size from the pool.
//
// The caller must invoke the returned cleanup function, typically with defer,
// once the slice is no longer referenced.
//
// Example:
//
//	valence, cleanup := pool.GetFloat64Slice(len(states))
//	defer cleanup()
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := *ptr
	if cap(slice) < size {
		slice = make([]float64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float64SlicePool.Put(ptr) }
}

// GetFloat32Slice returns a float32 slice of length size from the pool.
func GetFloat32Slice(size int) ([]float32, func()) {
	ptr, _ := float32SlicePool.Get().(*[]float32)
	slice := *ptr
	if cap(slice) < size {
		slice = make([]float32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float32SlicePool.Put(ptr) }
}
