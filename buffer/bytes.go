package buffer

import (
	memlayout "github.com/wippyai/memlayout"
)

var (
	_ memlayout.MutableBuffer = Bytes(nil)
	_ memlayout.Buffer        = ReadOnly(nil)
	_ memlayout.MutableBuffer = (*Pointer)(nil)
	_ memlayout.MutableBuffer = (*Mapping)(nil)
	_ memlayout.MutableBuffer = (*Wasm)(nil)
)

// Bytes is a writable buffer over a caller-owned slice.
type Bytes []byte

func (b Bytes) Len() int       { return len(b) }
func (b Bytes) Bytes() []byte  { return b }
func (b Bytes) Writable() bool { return true }

// ReadOnly is a buffer whose bytes may be read but never written.
type ReadOnly []byte

func (b ReadOnly) Len() int      { return len(b) }
func (b ReadOnly) Bytes() []byte { return b }
