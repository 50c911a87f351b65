package schema

import (
	"math"
	"slices"
	"strings"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
)

// MaxWidth bounds the byte width of any type or record.
const MaxWidth = math.MaxInt32

// Decl is one field declaration: a name and its type.
type Decl struct {
	Type TypeSpec
	Name string
}

// Compile computes the layout of a record from its ordered field
// declarations. Offsets are assigned in declaration order with no padding.
func Compile(name string, decls []Decl, e endian.Endianness) (*Schema, error) {
	if name == "" {
		return nil, errors.SchemaDefinition(name, nil, "record name is required")
	}

	s := &Schema{
		Name:       name,
		Endianness: e,
		Fields:     make([]Field, 0, len(decls)),
		index:      make(map[string]int, len(decls)),
	}

	var format strings.Builder
	offset := 0
	for i, d := range decls {
		if err := checkFieldName(name, d.Name); err != nil {
			return nil, err
		}
		if _, dup := s.index[d.Name]; dup {
			return nil, errors.SchemaDefinition(name, []string{d.Name}, "duplicate field name %q", d.Name)
		}

		t := detach(d.Type)
		width, err := typeWidth(name, d.Name, t)
		if err != nil {
			return nil, err
		}
		next, ok := safeAdd(offset, width)
		if !ok {
			return nil, errors.SchemaDefinition(name, []string{d.Name}, "record exceeds %d bytes", MaxWidth)
		}

		s.index[d.Name] = i
		s.Fields = append(s.Fields, Field{
			Type:   t,
			Name:   d.Name,
			Index:  i,
			Offset: offset,
			Width:  width,
		})
		format.WriteString(t.Format())
		offset = next
	}

	s.Width = offset
	s.Format = format.String()
	return s, nil
}

// detach copies the dimensions of an array type so later changes to the
// caller's slice cannot alter a compiled layout.
func detach(t TypeSpec) TypeSpec {
	if a, ok := t.(Array); ok {
		a.Dims = slices.Clone(a.Dims)
		return a
	}
	return t
}

// typeWidth validates t and returns its width.
func typeWidth(schema, field string, t TypeSpec) (int, error) {
	path := []string{field}
	switch v := t.(type) {
	case nil:
		return 0, errors.SchemaDefinition(schema, path, "missing type")
	case Primitive:
		if !v.Kind.Valid() {
			return 0, errors.SchemaDefinition(schema, path, "unknown primitive kind %d", v.Kind)
		}
		return v.Kind.Width(), nil
	case FixedString:
		if v.Length <= 0 {
			return 0, errors.SchemaDefinition(schema, path, "string length must be a positive integer, got %d", v.Length)
		}
		return v.Length, nil
	case Composite:
		if v.Schema == nil {
			return 0, errors.SchemaDefinition(schema, path, "unknown record type reference")
		}
		return v.Schema.Width, nil
	case Array:
		if _, nested := v.Elem.(Array); nested {
			return 0, errors.SchemaDefinition(schema, path, "array elements cannot be arrays; declare all dimensions on one array")
		}
		if len(v.Dims) == 0 {
			return 0, errors.SchemaDefinition(schema, path, "array needs at least one dimension")
		}
		width, err := typeWidth(schema, field, v.Elem)
		if err != nil {
			return 0, err
		}
		for _, d := range v.Dims {
			if d <= 0 {
				return 0, errors.SchemaDefinition(schema, path, "dimensions must be positive integers, got %d", d)
			}
			var ok bool
			if width, ok = safeMul(width, d); !ok {
				return 0, errors.SchemaDefinition(schema, path, "array exceeds %d bytes", MaxWidth)
			}
		}
		return width, nil
	default:
		return 0, errors.SchemaDefinition(schema, path, "unsupported type %T", t)
	}
}

// Field names must be usable in dotted paths.
func checkFieldName(schema, name string) error {
	if name == "" {
		return errors.SchemaDefinition(schema, nil, "field name is required")
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return errors.SchemaDefinition(schema, []string{name}, "invalid field name %q", name)
		}
	}
	return nil
}

func safeMul(a, b int) (int, bool) {
	if b != 0 && a > MaxWidth/b {
		return 0, false
	}
	return a * b, true
}

func safeAdd(a, b int) (int, bool) {
	if a > MaxWidth-b {
		return 0, false
	}
	return a + b, true
}
