package memlayout

// Buffer is a readable byte range of known length.
//
// Bytes must return the backing storage itself, never a copy: views decode
// fields straight out of it and, for mutable buffers, write into it.
type Buffer interface {
	Len() int
	Bytes() []byte
}

// MutableBuffer is a Buffer whose bytes may be written in place.
// Writable reports whether writes are currently permitted.
type MutableBuffer interface {
	Buffer
	Writable() bool
}

// IsWritable reports whether b accepts in-place writes.
func IsWritable(b Buffer) bool {
	mb, ok := b.(MutableBuffer)
	return ok && mb.Writable()
}
