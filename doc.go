// Package memlayout provides zero-copy typed views over packed binary records.
//
// A record layout is declared once as an ordered list of typed fields and
// compiled into an immutable Schema. A View binds a Schema to a byte range of
// a caller-owned buffer and reads or writes fields directly in that buffer.
//
// # Architecture Overview
//
//	memlayout/           Root package with the Buffer capability interfaces
//	├── schema/          Type catalog, layout compiler, registry, introspection
//	├── endian/          Byte order enumeration and resolution
//	├── config/          Process-wide default byte order
//	├── view/            View engine, arrays, structural transfer
//	├── buffer/          Buffer adapters (bytes, mmap, shm, pointer, wasm memory)
//	├── errors/          Structured error types
//	└── cmd/memlayout    Layout tables, interactive explorer, record dumps
//
// # Quick Start
//
//	point, _ := schema.NewBuilder("Point").
//	    Type("x", "uint16").
//	    Type("y", "uint16").
//	    Build()
//
//	rect, _ := schema.NewBuilder("Rect").
//	    Field("a", schema.Composite{Schema: point}).
//	    Field("b", schema.Composite{Schema: point}).
//	    Build()
//
//	buf := make([]byte, rect.Width)
//	v, err := view.New(rect, buffer.Bytes(buf), view.WithEndianness(endian.Little))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = v.Set("a.x", 1)
//	_ = v.Set("b.y", 4)
//	// buf == 01 00 00 00 00 00 04 00
//
// # Layout Rules
//
// Fields are packed in declaration order with no padding. Array dimensions
// are declared outermost-last: uint8[2,3] is three rows of two bytes.
//
//	Type            Width   Tag
//	──────────────────────────────
//	uint8/int8      1       B/b
//	uint16/int16    2       H/h
//	uint32/int32    4       I/i
//	uint64/int64    8       Q/q
//	float32         4       f
//	float64         8       d
//	bool            1       ?
//	char            1       c
//	string[n]       n       ns
//	record          sum of field widths
//	T[d1,...,dn]    width(T) * d1 * ... * dn
//
// # Thread Safety
//
// Schemas are immutable and safe for concurrent use. Views perform no
// locking; callers sharing a buffer across goroutines or processes must
// synchronize access themselves.
//
// # Memory Model
//
// Buffers are always owned by the caller. Views never allocate, grow or
// release the memory they read. View.Free drops the view's reference so the
// caller may unmap or release the buffer afterwards.
package memlayout
