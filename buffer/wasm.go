package buffer

import (
	"github.com/tetratelabs/wazero/api"
)

// Wasm is a buffer over wazero linear memory. Records placed in guest
// memory can be read and written by the host without copying.
//
// Linear memory may grow, which can move it; Bytes re-reads the memory on
// every call, so views always see the current backing array.
type Wasm struct {
	mem      api.Memory
	readOnly bool
}

// WasmMemory wraps mem as a writable buffer.
func WasmMemory(mem api.Memory) *Wasm {
	return &Wasm{mem: mem}
}

// WasmMemoryReadOnly wraps mem as a buffer that rejects writes.
func WasmMemoryReadOnly(mem api.Memory) *Wasm {
	return &Wasm{mem: mem, readOnly: true}
}

// Len returns the current memory size in bytes.
func (w *Wasm) Len() int { return int(w.mem.Size()) }

// Bytes returns the whole linear memory.
func (w *Wasm) Bytes() []byte {
	data, ok := w.mem.Read(0, w.mem.Size())
	if !ok {
		return nil
	}
	return data
}

func (w *Wasm) Writable() bool { return !w.readOnly }
