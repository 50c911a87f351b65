package view

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/memlayout/errors"
	"github.com/wippyai/memlayout/schema"
)

// FillFrom copies src's record into v. Both views must have equal
// layouts. Exactly Width bytes are written. When the two views resolve to
// different byte orders, every multi-byte number is converted, so decoded
// values match src field by field.
func (v *View) FillFrom(src *View) error {
	if src == nil {
		return errors.InvalidInput(errors.PhaseTransfer, "nil source view")
	}
	if !v.schema.Equal(src.schema) {
		return errors.New(errors.PhaseTransfer, errors.KindTypeMismatch).
			Schema(v.schema.Name).
			Type(v.schema.Name).
			Detail("cannot fill from %s: layouts differ", src.schema.Name).
			Build()
	}
	from, err := src.data(errors.PhaseTransfer, nil)
	if err != nil {
		return err
	}
	to, err := v.writable(nil)
	if err != nil {
		return err
	}

	w := v.schema.Width
	copy(to[v.offset:v.offset+w], from[src.offset:src.offset+w])
	if v.resolved.Concrete() != src.resolved.Concrete() {
		swapLeaves(to, v.schema, v.offset)
	}
	Logger().Debug("filled view",
		zap.String("schema", v.schema.Name),
		zap.Stringer("from", src.resolved),
		zap.Stringer("to", v.resolved))
	return nil
}

// ToMap decodes the record into nested maps. Arrays become nested slices
// with the outermost (last declared) dimension first.
func (v *View) ToMap() (map[string]any, error) {
	data, err := v.readable(nil)
	if err != nil {
		return nil, err
	}
	return decodeRecord(data, v.schema, v.offset, v.order), nil
}

// FillOption configures FillFromMap.
type FillOption func(*fillOptions)

type fillOptions struct {
	clearUnset bool
}

// ClearUnset zeroes every field missing from the map, recursively for
// nested records, before the map is applied.
func ClearUnset() FillOption {
	return func(o *fillOptions) { o.clearUnset = true }
}

// FillFromMap assigns the fields named in m. Nested records take nested
// maps; arrays take nested sequences of exactly the declared shape.
//
// The order is fixed: with ClearUnset, absent fields are zeroed first and
// stay zeroed even if the rest fails. The map is then validated in full
// (unknown keys and shape mismatches fail as type mismatches) and only
// then written, so a validation failure writes nothing else.
func (v *View) FillFromMap(m map[string]any, opts ...FillOption) error {
	var o fillOptions
	for _, opt := range opts {
		opt(&o)
	}
	data, err := v.writable(nil)
	if err != nil {
		return err
	}

	if o.clearUnset {
		clearAbsent(data, v.schema, v.offset, m)
	}

	p := plan{phase: errors.PhaseTransfer}
	if err := p.record(v.schema, v.offset, m, nil); err != nil {
		return err
	}
	p.apply(data, v.order)
	return nil
}

// clearAbsent zeroes the fields of s not present in m. Zero bytes decode
// as the zero value of every leaf type.
func clearAbsent(data []byte, s *schema.Schema, off int, m map[string]any) {
	for i := range s.Fields {
		f := &s.Fields[i]
		start := off + f.Offset
		val, ok := m[f.Name]
		if !ok {
			clear(data[start : start+f.Width])
			continue
		}
		switch t := f.Type.(type) {
		case schema.Composite:
			if nested, ok := val.(map[string]any); ok {
				clearAbsent(data, t.Schema, start, nested)
			}
		case schema.Array:
			if c, ok := t.Elem.(schema.Composite); ok {
				clearAbsentArray(data, c.Schema, t.Dims, start, val)
			}
		}
	}
}

func clearAbsentArray(data []byte, s *schema.Schema, dims []int, off int, val any) {
	rv := reflect.ValueOf(val)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return
	}
	n := len(dims)
	stride := s.Width
	for _, d := range dims[:n-1] {
		stride *= d
	}
	for i := 0; i < rv.Len() && i < dims[n-1]; i++ {
		item := rv.Index(i).Interface()
		if n > 1 {
			clearAbsentArray(data, s, dims[:n-1], off+i*stride, item)
			continue
		}
		if nested, ok := item.(map[string]any); ok {
			clearAbsent(data, s, off+i*stride, nested)
		}
	}
}
