package buffer

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/schema"
	"github.com/wippyai/memlayout/view"
)

var header = schema.NewBuilder("Header").
	Type("magic", "uint32").
	Type("count", "uint16").
	Type("name", "string[6]").
	MustBuild()

func TestViewOverWasmMemory(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := r.Instantiate(ctx, memoryModule)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	mem := mod.ExportedMemory("mem")

	v, err := view.New(header, WasmMemory(mem), view.WithOffset(1024), view.WithEndianness(endian.Little))
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Set("magic", 0xcafebabe); err != nil {
		t.Fatal(err)
	}
	if err := v.Set("name", "guest"); err != nil {
		t.Fatal(err)
	}
	if got, ok := mem.ReadUint32Le(1024); !ok || got != 0xcafebabe {
		t.Errorf("guest magic = %#x, want 0xcafebabe", got)
	}

	if !mem.WriteUint16Le(1028, 7) {
		t.Fatal("guest write failed")
	}
	if got, err := v.Uint("count"); err != nil || got != 7 {
		t.Errorf("count = %d, %v; want 7", got, err)
	}

	if _, ok := mem.Grow(1); !ok {
		t.Fatal("Grow failed")
	}
	if got, err := v.String("name"); err != nil || got != "guest" {
		t.Errorf("name after Grow = %q, %v; want guest", got, err)
	}

	ro, err := view.New(header, WasmMemoryReadOnly(mem), view.WithOffset(1024))
	if err != nil {
		t.Fatal(err)
	}
	if err := ro.Set("count", 1); err == nil {
		t.Error("write through read-only memory should fail")
	}
}
