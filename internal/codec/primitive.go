package codec

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/memlayout/schema"
)

// Store writes the bit pattern of a primitive of kind k into b.
// b must hold at least k.Width() bytes.
func Store(b []byte, k schema.Kind, order binary.ByteOrder, bits uint64) {
	switch k.Width() {
	case 1:
		b[0] = byte(bits)
	case 2:
		order.PutUint16(b, uint16(bits))
	case 4:
		order.PutUint32(b, uint32(bits))
	case 8:
		order.PutUint64(b, bits)
	}
}

// Load reads the bit pattern of a primitive of kind k from b.
func Load(b []byte, k schema.Kind, order binary.ByteOrder) uint64 {
	switch k.Width() {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	case 8:
		return order.Uint64(b)
	}
	return 0
}

// Decode reads a primitive of kind k from b and returns it as the matching
// Go type: uint8..int64, float32, float64, bool, or byte for char.
func Decode(b []byte, k schema.Kind, order binary.ByteOrder) any {
	bits := Load(b, k, order)
	switch k {
	case schema.KindUint8:
		return uint8(bits)
	case schema.KindInt8:
		return int8(bits)
	case schema.KindUint16:
		return uint16(bits)
	case schema.KindInt16:
		return int16(bits)
	case schema.KindUint32:
		return uint32(bits)
	case schema.KindInt32:
		return int32(bits)
	case schema.KindUint64:
		return bits
	case schema.KindInt64:
		return int64(bits)
	case schema.KindFloat32:
		return math.Float32frombits(uint32(bits))
	case schema.KindFloat64:
		return math.Float64frombits(bits)
	case schema.KindBool:
		return bits != 0
	case schema.KindChar:
		return schema.Char(bits)
	}
	return nil
}

// Encode validates v and stores it in b. Nothing is written when
// validation fails.
func Encode(path []string, b []byte, k schema.Kind, order binary.ByteOrder, v any) error {
	bits, err := Coerce(path, k, v)
	if err != nil {
		return err
	}
	Store(b, k, order, bits)
	return nil
}

// Swap reverses the byte order of a stored primitive in place.
func Swap(b []byte, k schema.Kind) {
	w := k.Width()
	for i, j := 0, w-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// Int64 sign- or zero-extends a primitive integer bit pattern of kind k.
func Int64(bits uint64, k schema.Kind) int64 {
	switch k {
	case schema.KindInt8:
		return int64(int8(bits))
	case schema.KindInt16:
		return int64(int16(bits))
	case schema.KindInt32:
		return int64(int32(bits))
	}
	return int64(bits)
}
