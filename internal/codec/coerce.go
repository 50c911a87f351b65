package codec

import (
	"fmt"
	"math"

	"github.com/wippyai/memlayout/errors"
	"github.com/wippyai/memlayout/schema"
)

// Coerce validates v against kind k and returns its bit pattern, ready for
// Store. Values of the wrong Go type fail with a type mismatch; numbers that
// do not fit the declared width fail with an out of range error.
func Coerce(path []string, k schema.Kind, v any) (uint64, error) {
	switch {
	case k.IsSigned():
		n, ok := toInt64(v)
		if !ok {
			return 0, rangeOrMismatch(path, k, v)
		}
		lo, hi := signedBounds(k)
		if n < lo || n > hi {
			return 0, errors.OutOfRange(path, v, k.String())
		}
		return uint64(n), nil

	case k.IsUnsigned():
		n, ok := toUint64(v)
		if !ok {
			return 0, rangeOrMismatch(path, k, v)
		}
		if n > unsignedMax(k) {
			return 0, errors.OutOfRange(path, v, k.String())
		}
		return n, nil

	case k == schema.KindFloat32:
		f, ok := toFloat64(v)
		if !ok {
			return 0, errors.TypeMismatch(errors.PhaseWrite, path, typeName(v), k.String())
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return 0, errors.OutOfRange(path, v, k.String())
		}
		return uint64(math.Float32bits(float32(f))), nil

	case k == schema.KindFloat64:
		f, ok := toFloat64(v)
		if !ok {
			return 0, errors.TypeMismatch(errors.PhaseWrite, path, typeName(v), k.String())
		}
		return math.Float64bits(f), nil

	case k == schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return 0, errors.TypeMismatch(errors.PhaseWrite, path, typeName(v), k.String())
		}
		if b {
			return 1, nil
		}
		return 0, nil

	case k == schema.KindChar:
		return coerceChar(path, v)
	}
	return 0, errors.New(errors.PhaseWrite, errors.KindSchemaDefinition).
		Path(path...).
		Detail("unknown primitive kind %d", k).
		Build()
}

func coerceChar(path []string, v any) (uint64, error) {
	switch c := v.(type) {
	case schema.Char:
		return uint64(c), nil
	case byte:
		return uint64(c), nil
	case string:
		if len(c) == 1 {
			return uint64(c[0]), nil
		}
		return 0, errors.New(errors.PhaseWrite, errors.KindEncoding).
			Path(path...).
			Type("char").
			Value(v).
			Detail("char needs exactly one byte, got %d", len(c)).
			Build()
	case []byte:
		if len(c) == 1 {
			return uint64(c[0]), nil
		}
		return 0, errors.New(errors.PhaseWrite, errors.KindEncoding).
			Path(path...).
			Type("char").
			Value(v).
			Detail("char needs exactly one byte, got %d", len(c)).
			Build()
	}
	return 0, errors.TypeMismatch(errors.PhaseWrite, path, typeName(v), "char")
}

// rangeOrMismatch distinguishes a number that cannot be represented from a
// value that is not a number at all.
func rangeOrMismatch(path []string, k schema.Kind, v any) error {
	if _, ok := toFloat64(v); ok {
		return errors.OutOfRange(path, v, k.String())
	}
	return errors.TypeMismatch(errors.PhaseWrite, path, typeName(v), k.String())
}

func signedBounds(k schema.Kind) (int64, int64) {
	switch k {
	case schema.KindInt8:
		return math.MinInt8, math.MaxInt8
	case schema.KindInt16:
		return math.MinInt16, math.MaxInt16
	case schema.KindInt32:
		return math.MinInt32, math.MaxInt32
	}
	return math.MinInt64, math.MaxInt64
}

func unsignedMax(k schema.Kind) uint64 {
	switch k {
	case schema.KindUint8:
		return math.MaxUint8
	case schema.KindUint16:
		return math.MaxUint16
	case schema.KindUint32:
		return math.MaxUint32
	}
	return math.MaxUint64
}

// toInt64 converts any Go integer, or an integral float, to int64.
func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		// 2^63 is the first float64 above MaxInt64
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		return toInt64(float64(v))
	}
	return 0, false
}

// toUint64 converts any non-negative Go integer, or a non-negative integral
// float, to uint64.
func toUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		if v >= 0 && v < math.MaxUint64 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		return toUint64(float64(v))
	}
	return 0, false
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
