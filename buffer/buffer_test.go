package buffer

import (
	"context"
	"testing"
	"unsafe"

	"github.com/tetratelabs/wazero"

	memlayout "github.com/wippyai/memlayout"
)

// memoryModule is a module with one exported page of memory named "mem".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x07, 0x07, 0x01, 0x03, 'm', 'e', 'm', 0x02, 0x00, // export "mem"
}

func TestBytes(t *testing.T) {
	raw := make([]byte, 4)
	b := Bytes(raw)
	if b.Len() != 4 || !memlayout.IsWritable(b) {
		t.Errorf("Bytes: Len %d writable %v, want 4 true", b.Len(), memlayout.IsWritable(b))
	}
	b.Bytes()[1] = 9
	if raw[1] != 9 {
		t.Error("Bytes should alias the slice")
	}

	ro := ReadOnly(raw)
	if memlayout.IsWritable(ro) {
		t.Error("ReadOnly should not be writable")
	}
	if &ro.Bytes()[0] != &raw[0] {
		t.Error("ReadOnly should alias the slice")
	}
}

func TestFromPointer(t *testing.T) {
	backing := make([]byte, 8)
	p := FromPointer(unsafe.Pointer(&backing[0]), len(backing), true)
	if p.Len() != 8 || !p.Writable() {
		t.Fatalf("Len %d writable %v, want 8 true", p.Len(), p.Writable())
	}
	p.Bytes()[7] = 0x42
	if backing[7] != 0x42 {
		t.Error("pointer buffer should alias the memory")
	}

	ro := FromPointer(unsafe.Pointer(&backing[0]), 4, false)
	if memlayout.IsWritable(ro) {
		t.Error("read-only pointer buffer should not be writable")
	}
	if empty := FromPointer(nil, 10, true); empty.Len() != 0 {
		t.Errorf("nil pointer Len = %d, want 0", empty.Len())
	}
}

func TestWasmMemory(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := r.Instantiate(ctx, memoryModule)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	mem := mod.ExportedMemory("mem")
	if mem == nil {
		t.Fatal("memory export not found")
	}

	w := WasmMemory(mem)
	if w.Len() != 65536 {
		t.Errorf("Len = %d, want 65536", w.Len())
	}
	if !memlayout.IsWritable(w) {
		t.Error("wasm memory should be writable")
	}

	w.Bytes()[100] = 0x7f
	if b, ok := mem.ReadByte(100); !ok || b != 0x7f {
		t.Errorf("guest memory byte = %#x, want 0x7f", b)
	}

	if _, ok := mem.Grow(1); !ok {
		t.Fatal("Grow failed")
	}
	if w.Len() != 2*65536 || len(w.Bytes()) != 2*65536 {
		t.Errorf("after Grow Len = %d, want %d", w.Len(), 2*65536)
	}
	if w.Bytes()[100] != 0x7f {
		t.Error("contents should survive growth")
	}

	if memlayout.IsWritable(WasmMemoryReadOnly(mem)) {
		t.Error("read-only wasm memory should not be writable")
	}
}
