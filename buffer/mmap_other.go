//go:build !unix

package buffer

import (
	"github.com/wippyai/memlayout/errors"
)

// Mapping is unavailable on this platform.
type Mapping struct{}

// MapFile is unavailable on this platform.
func MapFile(path string, writable bool) (*Mapping, error) {
	return nil, errors.InvalidInput(errors.PhaseConstruct, "memory-mapped files are not supported on this platform")
}

// OpenShared is unavailable on this platform.
func OpenShared(name string, writable bool) (*Mapping, error) {
	return nil, errors.InvalidInput(errors.PhaseConstruct, "shared memory is not supported on this platform")
}

func (m *Mapping) Len() int       { return 0 }
func (m *Mapping) Bytes() []byte  { return nil }
func (m *Mapping) Writable() bool { return false }
func (m *Mapping) Path() string   { return "" }
func (m *Mapping) Sync() error    { return nil }
func (m *Mapping) Close() error   { return nil }
