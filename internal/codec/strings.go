package codec

import (
	"bytes"

	"github.com/wippyai/memlayout/errors"
)

// CheckString validates v for a fixed-length string field of length n and
// returns its bytes. Strings longer than n fail; they are never truncated.
func CheckString(path []string, n int, v any) ([]byte, error) {
	var raw []byte
	switch s := v.(type) {
	case string:
		raw = []byte(s)
	case []byte:
		raw = s
	default:
		return nil, errors.TypeMismatch(errors.PhaseWrite, path, typeName(v), "string")
	}
	if len(raw) > n {
		return nil, errors.Encoding(path, len(raw), n)
	}
	return raw, nil
}

// PutString writes raw into dst and null-pads the remainder.
func PutString(dst, raw []byte) {
	n := copy(dst, raw)
	clear(dst[n:])
}

// GetString decodes a fixed-length string, dropping trailing null bytes.
func GetString(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
