//go:build unix

package buffer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wippyai/memlayout/errors"
)

// shmDir is where POSIX shared-memory objects appear on Linux.
var shmDir = "/dev/shm"

// OpenShared maps an existing POSIX shared-memory segment by name, as
// passed to shm_open ("/name" or "name"). The segment must already exist
// with its final size; creating and unlinking segments is left to the
// owner.
func OpenShared(name string, writable bool) (*Mapping, error) {
	base := strings.TrimPrefix(name, "/")
	if base == "" || strings.ContainsRune(base, '/') {
		return nil, errors.InvalidInput(errors.PhaseConstruct, fmt.Sprintf("invalid shared memory name %q", name))
	}
	return MapFile(filepath.Join(shmDir, base), writable)
}
