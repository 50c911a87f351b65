package schema

import (
	"github.com/wippyai/memlayout/endian"
)

// Field is a compiled field: its declared type and its position inside the
// record.
type Field struct {
	Type   TypeSpec
	Name   string
	Index  int
	Offset int
	Width  int
}

// Schema is the compiled, immutable layout of one record type.
type Schema struct {
	index      map[string]int
	Name       string
	Format     string
	Fields     []Field
	Width      int
	Endianness endian.Endianness
}

// Field returns the named field.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// FieldAt returns the i-th declared field.
func (s *Schema) FieldAt(i int) *Field {
	return &s.Fields[i]
}

// NumFields returns the number of declared fields.
func (s *Schema) NumFields() int {
	return len(s.Fields)
}

// FieldNames returns field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i := range s.Fields {
		names[i] = s.Fields[i].Name
	}
	return names
}

// FormatWith returns the encoding descriptor prefixed with the byte order
// symbol of e. Unspecified falls back to the schema's own override, then
// to native.
func (s *Schema) FormatWith(e endian.Endianness) string {
	e = endian.Resolve(e, s.Endianness, endian.Unspecified, endian.Native)
	return e.Symbol() + s.Format
}

// Equal reports whether s and other describe the same layout: same field
// names, types, offsets and widths, recursively. Record names and byte
// order overrides are not compared.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.Width != other.Width || s.Format != other.Format || len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		a, b := &s.Fields[i], &other.Fields[i]
		if a.Name != b.Name || a.Offset != b.Offset || a.Width != b.Width {
			return false
		}
		if !sameType(a.Type, b.Type) {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	return s.Name
}
