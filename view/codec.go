package view

import (
	"encoding/binary"
	"maps"
	"reflect"
	"slices"

	"github.com/wippyai/memlayout/errors"
	"github.com/wippyai/memlayout/internal/codec"
	"github.com/wippyai/memlayout/schema"
)

// op is one validated leaf write.
type op struct {
	str  []byte
	bits uint64
	off  int
	// width is the string width; zero for primitives
	width int
	kind  schema.Kind
}

// plan collects validated writes so a batch either fully succeeds
// validation or leaves the buffer untouched.
type plan struct {
	ops   []op
	phase errors.Phase
}

func (p *plan) value(t schema.TypeSpec, off int, val any, path []string) error {
	switch ts := t.(type) {
	case schema.Primitive:
		bits, err := codec.Coerce(path, ts.Kind, val)
		if err != nil {
			return err
		}
		p.ops = append(p.ops, op{off: off, kind: ts.Kind, bits: bits})
		return nil
	case schema.FixedString:
		raw, err := codec.CheckString(path, ts.Length, val)
		if err != nil {
			return err
		}
		p.ops = append(p.ops, op{off: off, str: raw, width: ts.Length})
		return nil
	case schema.Composite:
		m, ok := val.(map[string]any)
		if !ok {
			return errors.TypeMismatch(p.phase, path, typeName(val), ts.String())
		}
		return p.record(ts.Schema, off, m, path)
	case schema.Array:
		return p.array(ts.Elem, ts.Dims, off, val, path)
	}
	return errors.TypeMismatch(p.phase, path, typeName(val), "unknown field type")
}

func (p *plan) record(s *schema.Schema, off int, m map[string]any, path []string) error {
	for _, name := range slices.Sorted(maps.Keys(m)) {
		fieldPath := appendPath(path, name)
		f, ok := s.Field(name)
		if !ok {
			return errors.New(p.phase, errors.KindTypeMismatch).
				Schema(s.Name).
				Path(fieldPath...).
				Detail("%s has no field %q", s.Name, name).
				Cause(errors.UnknownField(p.phase, s.Name, fieldPath, name)).
				Build()
		}
		if err := p.value(f.Type, off+f.Offset, m[name], fieldPath); err != nil {
			return err
		}
	}
	return nil
}

// array checks that val has exactly the declared shape; the outermost
// level of val is the last declared dimension.
func (p *plan) array(elem schema.TypeSpec, dims []int, off int, val any, path []string) error {
	rv, err := sequence(p.phase, val, dims, path)
	if err != nil {
		return err
	}
	n := len(dims)
	stride := strideOf(elem, dims)
	for i := 0; i < dims[n-1]; i++ {
		item := rv.Index(i).Interface()
		itemPath := indexPath(path, i)
		if n == 1 {
			err = p.value(elem, off+i*stride, item, itemPath)
		} else {
			err = p.array(elem, dims[:n-1], off+i*stride, item, itemPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *plan) apply(data []byte, order binary.ByteOrder) {
	for _, o := range p.ops {
		if o.width > 0 {
			codec.PutString(data[o.off:o.off+o.width], o.str)
			continue
		}
		codec.Store(data[o.off:], o.kind, order, o.bits)
	}
}

// sequence returns val as a slice or array value whose length matches the
// outermost dimension.
func sequence(phase errors.Phase, val any, dims []int, path []string) (reflect.Value, error) {
	rv := reflect.ValueOf(val)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return reflect.Value{}, errors.TypeMismatch(phase, path, typeName(val), "sequence")
	}
	if want := dims[len(dims)-1]; rv.Len() != want {
		return reflect.Value{}, errors.New(phase, errors.KindTypeMismatch).
			Path(path...).
			Value(rv.Len()).
			Detail("sequence has %d items, want %d", rv.Len(), want).
			Build()
	}
	return rv, nil
}

// strideOf is the byte distance between consecutive items at the
// outermost level of dims.
func strideOf(elem schema.TypeSpec, dims []int) int {
	w := elem.Width()
	for _, d := range dims[:len(dims)-1] {
		w *= d
	}
	return w
}

func decodeValue(data []byte, t schema.TypeSpec, off int, order binary.ByteOrder) any {
	switch ts := t.(type) {
	case schema.Primitive:
		return codec.Decode(data[off:], ts.Kind, order)
	case schema.FixedString:
		return codec.GetString(data[off : off+ts.Length])
	case schema.Composite:
		return decodeRecord(data, ts.Schema, off, order)
	case schema.Array:
		return decodeArray(data, ts.Elem, ts.Dims, off, order)
	}
	return nil
}

func decodeRecord(data []byte, s *schema.Schema, off int, order binary.ByteOrder) map[string]any {
	m := make(map[string]any, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		m[f.Name] = decodeValue(data, f.Type, off+f.Offset, order)
	}
	return m
}

func decodeArray(data []byte, elem schema.TypeSpec, dims []int, off int, order binary.ByteOrder) []any {
	n := len(dims)
	stride := strideOf(elem, dims)
	out := make([]any, dims[n-1])
	for i := range out {
		if n == 1 {
			out[i] = decodeValue(data, elem, off+i*stride, order)
		} else {
			out[i] = decodeArray(data, elem, dims[:n-1], off+i*stride, order)
		}
	}
	return out
}

// swapLeaves reverses every multi-byte primitive of s stored at off.
func swapLeaves(data []byte, s *schema.Schema, off int) {
	for i := range s.Fields {
		f := &s.Fields[i]
		swapType(data, f.Type, off+f.Offset)
	}
}

func swapType(data []byte, t schema.TypeSpec, off int) {
	switch ts := t.(type) {
	case schema.Primitive:
		if ts.Kind.Width() > 1 {
			codec.Swap(data[off:], ts.Kind)
		}
	case schema.Composite:
		swapLeaves(data, ts.Schema, off)
	case schema.Array:
		w := ts.Elem.Width()
		for i := 0; i < ts.Items(); i++ {
			swapType(data, ts.Elem, off+i*w)
		}
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
