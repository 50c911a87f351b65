// Package view binds compiled schemas to caller-owned buffers.
//
// A View reads and writes the fields of one record directly in a buffer,
// at a fixed absolute offset and with one resolved byte order. Nothing is
// copied: composite fields return sub-views that alias the parent's bytes,
// and array fields return proxies that index into the same storage.
//
// # Paths
//
// Get and Set address fields with dotted paths. Array indices are written
// outermost first, matching the nesting of ToMap output:
//
//	v.Get("a.x")
//	v.Set("children[1].sub.simple", 7)
//	v.Get("m[2][0]")
//
// # Lifecycle
//
// Attach rebinds a view to another buffer or offset and invalidates every
// sub-view and array proxy handed out before; using them afterwards fails
// with errors.ErrDetachedBuffer. Free drops the buffer reference so the
// caller can unmap or release it. Neither ever deallocates the buffer.
//
// # Byte order
//
// The byte order is resolved once per construction or Attach: the
// WithEndianness option, else the record's own override (for views built
// directly on it), else the order of the view that built it, else the
// process default from the config package. Sub-views always inherit.
//
// # Thread Safety
//
// Views are not safe for concurrent use. Several views may alias the same
// bytes; callers sharing buffers across goroutines or processes provide
// their own synchronization.
package view
