// Package buffer adapts concrete byte storage to memlayout.Buffer.
//
// None of the adapters copy. Bytes returns the backing storage itself, so a
// view built on an adapter reads and writes the file, segment or linear
// memory directly.
//
//	Bytes       caller-owned slice, writable
//	ReadOnly    caller-owned slice, writes rejected
//	Mapping     memory-mapped file or shared-memory segment (unix)
//	Pointer     externally managed memory, pointer plus length
//	Wasm        wazero linear memory
//
// Ownership stays with the caller. Views never close or unmap a buffer;
// free the views first, then release the storage.
package buffer
