// Package endian defines the byte orders a view can use and the precedence
// rules that pick one.
package endian

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/memlayout/errors"
)

// Endianness selects the byte order of multi-byte primitives.
type Endianness uint8

const (
	// Unspecified defers to the next source in resolution order.
	Unspecified Endianness = iota
	Native
	Little
	Big
)

// Network is network byte order.
const Network = Big

var names = [...]string{
	Unspecified: "UNSPECIFIED",
	Native:      "NATIVE",
	Little:      "LITTLE",
	Big:         "BIG",
}

var symbols = [...]string{
	Unspecified: "",
	Native:      "=",
	Little:      "<",
	Big:         ">",
}

func (e Endianness) String() string {
	if int(e) < len(names) {
		return names[e]
	}
	return "unknown"
}

// Symbol returns the single-character prefix used in encoding descriptors.
func (e Endianness) Symbol() string {
	if int(e) < len(symbols) {
		return symbols[e]
	}
	return ""
}

// Concrete maps Native to the host byte order. Unspecified maps to the
// host byte order as well.
func (e Endianness) Concrete() Endianness {
	switch e {
	case Little, Big:
		return e
	default:
		if isHostLittle() {
			return Little
		}
		return Big
	}
}

// ByteOrder returns the encoding/binary order for e.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e.Concrete() == Little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Parse accepts exactly NATIVE, LITTLE, BIG and NETWORK.
func Parse(name string) (Endianness, error) {
	switch name {
	case "NATIVE":
		return Native, nil
	case "LITTLE":
		return Little, nil
	case "BIG", "NETWORK":
		return Big, nil
	}
	return Unspecified, errors.InvalidInput(errors.PhaseConfig,
		fmt.Sprintf("invalid endianness %q (want NATIVE, LITTLE, BIG or NETWORK)", name))
}

// MarshalText implements encoding.TextMarshaler.
func (e Endianness) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Endianness) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Resolve picks the effective byte order of a view. The first source that
// is not Unspecified wins: the per-construction override, then the
// schema's own override, then the constructing view, then the process
// default. Callers pass Unspecified as schemaOverride for schemas reached
// as nested fields.
func Resolve(construction, schemaOverride, parent, processDefault Endianness) Endianness {
	for _, e := range [...]Endianness{construction, schemaOverride, parent, processDefault} {
		if e != Unspecified {
			return e
		}
	}
	return Native
}

func isHostLittle() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	return probe[0] == 1
}
