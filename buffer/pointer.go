package buffer

import (
	"unsafe"
)

// Pointer is a buffer over memory managed outside Go, such as a region
// returned by a C allocator or a device mapping.
type Pointer struct {
	data     []byte
	writable bool
}

// FromPointer wraps n bytes at ptr. The memory must stay valid, and must
// not move, for as long as any view uses the buffer.
func FromPointer(ptr unsafe.Pointer, n int, writable bool) *Pointer {
	if ptr == nil || n <= 0 {
		return &Pointer{}
	}
	return &Pointer{data: unsafe.Slice((*byte)(ptr), n), writable: writable}
}

func (p *Pointer) Len() int       { return len(p.data) }
func (p *Pointer) Bytes() []byte  { return p.data }
func (p *Pointer) Writable() bool { return p.writable }
