//go:build unix

package buffer

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/wippyai/memlayout/errors"
)

// Mapping is a file mapped into memory with MAP_SHARED: writes through a
// view land in the file and are visible to every other process mapping
// it. The file keeps its size; the mapping covers all of it.
//
// Close unmaps the memory. Free every view built on the mapping first.
type Mapping struct {
	mu       sync.Mutex
	data     []byte
	path     string
	writable bool
	closed   bool
}

// MapFile maps the existing file at path. With writable set the file is
// opened read-write and the mapping accepts writes.
func MapFile(path string, writable bool) (*Mapping, error) {
	flags, prot := unix.O_RDONLY, unix.PROT_READ
	if writable {
		flags, prot = unix.O_RDWR, unix.PROT_READ|unix.PROT_WRITE
	}

	fd, err := unix.Open(path, flags|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, mapError(path, "open", err)
	}
	// the mapping stays valid after the descriptor is closed
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, mapError(path, "stat", err)
	}
	if stat.Size == 0 {
		return nil, errors.InvalidInput(errors.PhaseConstruct, fmt.Sprintf("cannot map empty file %s", path))
	}

	data, err := unix.Mmap(fd, 0, int(stat.Size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, mapError(path, "mmap", err)
	}
	Logger().Debug("mapped file",
		zap.String("path", path),
		zap.Int("size", len(data)),
		zap.Bool("writable", writable))
	return &Mapping{data: data, path: path, writable: writable}, nil
}

func mapError(path, op string, err error) error {
	return errors.Wrap(errors.PhaseConstruct, errors.KindInvalidInput, err, fmt.Sprintf("%s %s", op, path))
}

// Len returns the mapped size, or 0 after Close.
func (m *Mapping) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Bytes returns the mapped memory, or nil after Close.
func (m *Mapping) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Writable reports whether the mapping was opened for writing and is
// still open.
func (m *Mapping) Writable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writable && !m.closed
}

// Path returns the mapped file path.
func (m *Mapping) Path() string { return m.path }

// Sync flushes writes to the underlying file.
func (m *Mapping) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return mapError(m.path, "msync", err)
	}
	return nil
}

// Close unmaps the memory. It is safe to call more than once.
func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	if err := unix.Munmap(data); err != nil {
		return mapError(m.path, "munmap", err)
	}
	Logger().Debug("unmapped file", zap.String("path", m.path))
	return nil
}
