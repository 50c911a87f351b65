package view

import (
	"math"

	"github.com/wippyai/memlayout/errors"
	"github.com/wippyai/memlayout/internal/codec"
	"github.com/wippyai/memlayout/schema"
)

// node is a resolved path target: a record, an array, or a leaf stored at
// off in owner's buffer.
type node struct {
	view  *View
	arr   *Array
	owner *View
	leaf  schema.TypeSpec
	path  []string
	off   int
}

func (n node) get() (any, error) {
	switch {
	case n.view != nil:
		return n.view, nil
	case n.arr != nil:
		return n.arr, nil
	}
	data, err := n.owner.readable(n.path)
	if err != nil {
		return nil, err
	}
	return decodeValue(data, n.leaf, n.off, n.owner.order), nil
}

func (n node) set(value any) error {
	switch {
	case n.view != nil:
		return errors.AssignmentNotSupported(n.path, n.view.schema.Name)
	case n.arr != nil:
		return n.arr.SetAll(value)
	}
	data, err := n.owner.writable(n.path)
	if err != nil {
		return err
	}
	p := plan{phase: errors.PhaseWrite}
	if err := p.value(n.leaf, n.off, value, n.path); err != nil {
		return err
	}
	p.apply(data, n.owner.order)
	return nil
}

// resolve walks a dotted path from v.
func (v *View) resolve(phase errors.Phase, path string) (node, error) {
	steps, err := parsePath(phase, path)
	if err != nil {
		return node{}, err
	}

	cur := v
	var p []string
	for si, st := range steps {
		n, err := cur.field(phase, st, p)
		if err != nil {
			return node{}, err
		}
		if si == len(steps)-1 {
			return n, nil
		}
		if n.view == nil {
			return node{}, errors.New(phase, errors.KindTypeMismatch).
				Schema(v.schema.Name).
				Path(n.path...).
				Detail("not a record").
				Build()
		}
		cur = n.view
		p = n.path
	}
	return node{}, nil
}

// field resolves one path step against v's own fields.
func (v *View) field(phase errors.Phase, st step, parent []string) (node, error) {
	path := appendPath(parent, st.name)
	f, ok := v.schema.Field(st.name)
	if !ok {
		return node{}, errors.UnknownField(phase, v.schema.Name, path, st.name)
	}
	if v.bind.released {
		return node{}, errors.Detached(phase, v.schema.Name, path)
	}

	switch t := f.Type.(type) {
	case schema.Array:
		arr, ok := v.arrays[f.Index]
		if !ok || arr.bind != v.bind {
			arr = v.newArray(t.Elem, t.Dims, v.offset+f.Offset, path)
			if v.arrays == nil {
				v.arrays = make(map[int]*Array)
			}
			v.arrays[f.Index] = arr
		}
		if len(st.indices) > len(t.Dims) {
			return node{}, errors.New(phase, errors.KindTypeMismatch).
				Schema(v.schema.Name).
				Path(path...).
				Detail("%d indices for %d-dimensional array", len(st.indices), len(t.Dims)).
				Build()
		}
		return arr.at(phase, st.indices)
	}

	if len(st.indices) > 0 {
		return node{}, errors.New(phase, errors.KindTypeMismatch).
			Schema(v.schema.Name).
			Path(path...).
			Type(f.Type.String()).
			Detail("field is not an array").
			Build()
	}

	if c, ok := f.Type.(schema.Composite); ok {
		sv, ok := v.subs[f.Index]
		if !ok || sv.bind != v.bind {
			sv = v.sub(c.Schema, v.offset+f.Offset)
			if v.subs == nil {
				v.subs = make(map[int]*View)
			}
			v.subs[f.Index] = sv
		}
		return node{view: sv, path: path}, nil
	}
	return node{owner: v, leaf: f.Type, off: v.offset + f.Offset, path: path}, nil
}

// Get returns the value at path: a Go number, bool, schema.Char or string
// for leaves, a *View for records, an *Array for arrays.
func (v *View) Get(path string) (any, error) {
	n, err := v.resolve(errors.PhaseRead, path)
	if err != nil {
		return nil, err
	}
	return n.get()
}

// Set assigns the value at path. Leaves and arrays of leaves accept
// assignment; records do not. Validation precedes any write.
func (v *View) Set(path string, value any) error {
	n, err := v.resolve(errors.PhaseWrite, path)
	if err != nil {
		return err
	}
	return n.set(value)
}

// Struct returns the sub-view of a record field.
func (v *View) Struct(path string) (*View, error) {
	n, err := v.resolve(errors.PhaseRead, path)
	if err != nil {
		return nil, err
	}
	if n.view == nil {
		return nil, errors.TypeMismatch(errors.PhaseRead, n.path, n.kindName(), "record")
	}
	return n.view, nil
}

// Array returns the proxy of an array field, or of a sub-array when path
// carries fewer indices than the array has dimensions.
func (v *View) Array(path string) (*Array, error) {
	n, err := v.resolve(errors.PhaseRead, path)
	if err != nil {
		return nil, err
	}
	if n.arr == nil {
		return nil, errors.TypeMismatch(errors.PhaseRead, n.path, n.kindName(), "array")
	}
	return n.arr, nil
}

func (n node) kindName() string {
	switch {
	case n.view != nil:
		return n.view.schema.Name
	case n.arr != nil:
		return "array"
	}
	return n.leaf.String()
}

// primitive resolves path to a primitive leaf and checks its kind.
func (v *View) primitive(path string, accept func(schema.Kind) bool, want string) (node, schema.Kind, error) {
	n, err := v.resolve(errors.PhaseRead, path)
	if err != nil {
		return node{}, 0, err
	}
	p, ok := n.leaf.(schema.Primitive)
	if !ok || !accept(p.Kind) {
		return node{}, 0, errors.TypeMismatch(errors.PhaseRead, n.path, n.kindName(), want)
	}
	return n, p.Kind, nil
}

func isInteger(k schema.Kind) bool { return k.IsSigned() || k.IsUnsigned() }

// Int reads any integer field as int64.
func (v *View) Int(path string) (int64, error) {
	n, k, err := v.primitive(path, isInteger, "integer")
	if err != nil {
		return 0, err
	}
	bits, err := n.bits(k)
	if err != nil {
		return 0, err
	}
	if k == schema.KindUint64 && bits > math.MaxInt64 {
		return 0, errors.New(errors.PhaseRead, errors.KindOutOfRange).
			Path(n.path...).
			Type("int64").
			Value(bits).
			Detail("value %d is not representable as int64", bits).
			Build()
	}
	return codec.Int64(bits, k), nil
}

// Uint reads any integer field as uint64. Negative values fail.
func (v *View) Uint(path string) (uint64, error) {
	n, k, err := v.primitive(path, isInteger, "integer")
	if err != nil {
		return 0, err
	}
	bits, err := n.bits(k)
	if err != nil {
		return 0, err
	}
	if k.IsSigned() {
		s := codec.Int64(bits, k)
		if s < 0 {
			return 0, errors.New(errors.PhaseRead, errors.KindOutOfRange).
				Path(n.path...).
				Type("uint64").
				Value(s).
				Detail("value %d is not representable as uint64", s).
				Build()
		}
		return uint64(s), nil
	}
	return bits, nil
}

// Float reads a float32 or float64 field.
func (v *View) Float(path string) (float64, error) {
	n, k, err := v.primitive(path, schema.Kind.IsFloat, "float")
	if err != nil {
		return 0, err
	}
	bits, err := n.bits(k)
	if err != nil {
		return 0, err
	}
	if k == schema.KindFloat32 {
		return float64(math.Float32frombits(uint32(bits))), nil
	}
	return math.Float64frombits(bits), nil
}

// Bool reads a bool field.
func (v *View) Bool(path string) (bool, error) {
	n, k, err := v.primitive(path, func(k schema.Kind) bool { return k == schema.KindBool }, "bool")
	if err != nil {
		return false, err
	}
	bits, err := n.bits(k)
	return bits != 0, err
}

// Char reads a char field.
func (v *View) Char(path string) (byte, error) {
	n, k, err := v.primitive(path, func(k schema.Kind) bool { return k == schema.KindChar }, "char")
	if err != nil {
		return 0, err
	}
	bits, err := n.bits(k)
	return byte(bits), err
}

// String reads a fixed-length string field without its null padding.
func (v *View) String(path string) (string, error) {
	n, err := v.resolve(errors.PhaseRead, path)
	if err != nil {
		return "", err
	}
	if _, ok := n.leaf.(schema.FixedString); !ok {
		return "", errors.TypeMismatch(errors.PhaseRead, n.path, n.kindName(), "string")
	}
	s, err := n.get()
	if err != nil {
		return "", err
	}
	return s.(string), nil
}

func (n node) bits(k schema.Kind) (uint64, error) {
	data, err := n.owner.readable(n.path)
	if err != nil {
		return 0, err
	}
	return codec.Load(data[n.off:], k, n.owner.order), nil
}

// SetInt assigns an integer field.
func (v *View) SetInt(path string, x int64) error { return v.Set(path, x) }

// SetUint assigns an integer field.
func (v *View) SetUint(path string, x uint64) error { return v.Set(path, x) }

// SetFloat assigns a float field.
func (v *View) SetFloat(path string, x float64) error { return v.Set(path, x) }

// SetBool assigns a bool field.
func (v *View) SetBool(path string, x bool) error { return v.Set(path, x) }

// SetChar assigns a char field.
func (v *View) SetChar(path string, c byte) error { return v.Set(path, c) }

// SetString assigns a fixed-length string field.
func (v *View) SetString(path string, s string) error { return v.Set(path, s) }
