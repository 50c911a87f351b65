package schema

import (
	"strconv"
	"strings"
)

// TypeSpec describes the declared type of a field. The set of
// implementations is closed: Primitive, FixedString, Composite and Array.
type TypeSpec interface {
	// Width is the encoded size in bytes.
	Width() int
	// Format is the encoding descriptor of the type.
	Format() string
	// String renders the type the way it is declared.
	String() string

	typeSpec()
}

// Primitive is a fixed-width number, bool or char.
type Primitive struct {
	Kind Kind
}

// FixedString is a string stored in exactly Length bytes, null padded.
type FixedString struct {
	Length int
}

// Composite is a nested record.
type Composite struct {
	Schema *Schema
}

// Array repeats Elem over Dims. Dims are declared outermost-last: the last
// dimension is the outermost nesting level. Elem is never an Array.
type Array struct {
	Elem TypeSpec
	Dims []int
}

func (Primitive) typeSpec()   {}
func (FixedString) typeSpec() {}
func (Composite) typeSpec()   {}
func (Array) typeSpec()       {}

func (p Primitive) Width() int     { return p.Kind.Width() }
func (p Primitive) Format() string { return string(p.Kind.Tag()) }
func (p Primitive) String() string { return p.Kind.String() }

func (s FixedString) Width() int { return s.Length }

func (s FixedString) Format() string {
	if s.Length == 1 {
		return string(StringTag)
	}
	return strconv.Itoa(s.Length) + string(StringTag)
}

func (s FixedString) String() string {
	return StringKindName + "[" + strconv.Itoa(s.Length) + "]"
}

func (c Composite) Width() int {
	if c.Schema == nil {
		return 0
	}
	return c.Schema.Width
}

func (c Composite) Format() string {
	if c.Schema == nil {
		return ""
	}
	return c.Schema.Format
}

func (c Composite) String() string {
	if c.Schema == nil {
		return "<nil>"
	}
	return c.Schema.Name
}

// Items returns the total number of elements.
func (a Array) Items() int {
	n := 1
	for _, d := range a.Dims {
		n *= d
	}
	return n
}

func (a Array) Width() int {
	if a.Elem == nil {
		return 0
	}
	return a.Elem.Width() * a.Items()
}

func (a Array) Format() string {
	if a.Elem == nil {
		return ""
	}
	n := a.Items()
	if p, ok := a.Elem.(Primitive); ok {
		if n == 1 {
			return p.Format()
		}
		return strconv.Itoa(n) + p.Format()
	}
	return strings.Repeat(a.Elem.Format(), n)
}

func (a Array) String() string {
	var b strings.Builder
	var dims []int
	switch e := a.Elem.(type) {
	case FixedString:
		b.WriteString(StringKindName)
		dims = append([]int{e.Length}, a.Dims...)
	case nil:
		b.WriteString("<nil>")
		dims = a.Dims
	default:
		b.WriteString(e.String())
		dims = a.Dims
	}
	b.WriteByte('[')
	for i, d := range dims {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte(']')
	return b.String()
}

// Leaf returns the element type of an array, or t itself.
func Leaf(t TypeSpec) TypeSpec {
	if a, ok := t.(Array); ok {
		return a.Elem
	}
	return t
}

// Dims returns the declared array dimensions of t, nil for scalars.
func Dims(t TypeSpec) []int {
	if a, ok := t.(Array); ok {
		return a.Dims
	}
	return nil
}

// IsComposite reports whether t or its array element is a nested record.
func IsComposite(t TypeSpec) bool {
	_, ok := Leaf(t).(Composite)
	return ok
}

func sameType(a, b TypeSpec) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Kind == y.Kind
	case FixedString:
		y, ok := b.(FixedString)
		return ok && x.Length == y.Length
	case Composite:
		y, ok := b.(Composite)
		return ok && x.Schema.Equal(y.Schema)
	case Array:
		y, ok := b.(Array)
		if !ok || len(x.Dims) != len(y.Dims) {
			return false
		}
		for i := range x.Dims {
			if x.Dims[i] != y.Dims[i] {
				return false
			}
		}
		return sameType(x.Elem, y.Elem)
	}
	return false
}
