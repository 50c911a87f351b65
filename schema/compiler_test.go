package schema

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
)

func point(t *testing.T) *Schema {
	t.Helper()
	s, err := Compile("Point", []Decl{
		{Name: "x", Type: Primitive{Kind: KindUint16}},
		{Name: "y", Type: Primitive{Kind: KindUint16}},
	}, endian.Unspecified)
	if err != nil {
		t.Fatalf("Compile Point failed: %v", err)
	}
	return s
}

func TestCompile_PointRect(t *testing.T) {
	p := point(t)
	if p.Width != 4 {
		t.Errorf("Point.Width = %d, want 4", p.Width)
	}
	if p.Format != "HH" {
		t.Errorf("Point.Format = %q, want HH", p.Format)
	}

	rect, err := Compile("Rect", []Decl{
		{Name: "a", Type: Composite{Schema: p}},
		{Name: "b", Type: Composite{Schema: p}},
	}, endian.Little)
	if err != nil {
		t.Fatalf("Compile Rect failed: %v", err)
	}
	if rect.Width != 8 {
		t.Errorf("Rect.Width = %d, want 8", rect.Width)
	}
	if rect.Format != "HHHH" {
		t.Errorf("Rect.Format = %q, want HHHH", rect.Format)
	}
	if got := rect.FormatWith(endian.Unspecified); got != "<HHHH" {
		t.Errorf("FormatWith(Unspecified) = %q, want <HHHH", got)
	}
	if got := rect.FormatWith(endian.Big); got != ">HHHH" {
		t.Errorf("FormatWith(Big) = %q, want >HHHH", got)
	}
	b, ok := rect.Field("b")
	if !ok {
		t.Fatal("field b not found")
	}
	if b.Offset != 4 || b.Width != 4 || b.Index != 1 {
		t.Errorf("b = offset %d width %d index %d, want 4 4 1", b.Offset, b.Width, b.Index)
	}
}

func TestCompile_Offsets(t *testing.T) {
	p := point(t)
	s, err := Compile("Mixed", []Decl{
		{Name: "flag", Type: Primitive{Kind: KindBool}},
		{Name: "id", Type: Primitive{Kind: KindUint32}},
		{Name: "name", Type: FixedString{Length: 5}},
		{Name: "names", Type: Array{Elem: FixedString{Length: 3}, Dims: []int{2}}},
		{Name: "m", Type: Array{Elem: Primitive{Kind: KindUint8}, Dims: []int{2, 3}}},
		{Name: "pts", Type: Array{Elem: Composite{Schema: p}, Dims: []int{2}}},
		{Name: "v", Type: Primitive{Kind: KindFloat64}},
	}, endian.Unspecified)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	tests := []struct {
		name   string
		offset int
		width  int
	}{
		{"flag", 0, 1},
		{"id", 1, 4},
		{"name", 5, 5},
		{"names", 10, 6},
		{"m", 16, 6},
		{"pts", 22, 8},
		{"v", 30, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := s.Field(tt.name)
			if !ok {
				t.Fatalf("field %s not found", tt.name)
			}
			if f.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", f.Offset, tt.offset)
			}
			if f.Width != tt.width {
				t.Errorf("Width = %d, want %d", f.Width, tt.width)
			}
		})
	}

	if s.Width != 38 {
		t.Errorf("Width = %d, want 38", s.Width)
	}
	if want := "?I5s3s3s6BHHHHd"; s.Format != want {
		t.Errorf("Format = %q, want %q", s.Format, want)
	}
	if got := s.FieldNames(); len(got) != 7 || got[0] != "flag" || got[6] != "v" {
		t.Errorf("FieldNames = %v", got)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	decls := []Decl{
		{Name: "a", Type: Primitive{Kind: KindInt64}},
		{Name: "b", Type: Array{Elem: Primitive{Kind: KindInt16}, Dims: []int{2, 3, 4}}},
	}
	s1, err := Compile("D", decls, endian.Unspecified)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	s2, err := Compile("D2", decls, endian.Big)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !s1.Equal(s2) {
		t.Error("schemas from the same declarations should be equal")
	}
	if s1.Width != 8+2*24 {
		t.Errorf("Width = %d, want %d", s1.Width, 8+2*24)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record string
		decls  []Decl
	}{
		{"missing record name", "", []Decl{{Name: "a", Type: Primitive{Kind: KindUint8}}}},
		{"duplicate field", "R", []Decl{
			{Name: "a", Type: Primitive{Kind: KindUint8}},
			{Name: "a", Type: Primitive{Kind: KindUint16}},
		}},
		{"empty field name", "R", []Decl{{Name: "", Type: Primitive{Kind: KindUint8}}}},
		{"dotted field name", "R", []Decl{{Name: "a.b", Type: Primitive{Kind: KindUint8}}}},
		{"leading digit", "R", []Decl{{Name: "1a", Type: Primitive{Kind: KindUint8}}}},
		{"nil type", "R", []Decl{{Name: "a"}}},
		{"invalid kind", "R", []Decl{{Name: "a", Type: Primitive{Kind: KindInvalid}}}},
		{"zero string", "R", []Decl{{Name: "a", Type: FixedString{Length: 0}}}},
		{"unknown composite", "R", []Decl{{Name: "a", Type: Composite{}}}},
		{"zero dimension", "R", []Decl{{Name: "a", Type: Array{Elem: Primitive{Kind: KindUint8}, Dims: []int{2, 0}}}}},
		{"negative dimension", "R", []Decl{{Name: "a", Type: Array{Elem: Primitive{Kind: KindUint8}, Dims: []int{-1}}}}},
		{"no dimensions", "R", []Decl{{Name: "a", Type: Array{Elem: Primitive{Kind: KindUint8}}}}},
		{"nested array", "R", []Decl{{Name: "a", Type: Array{
			Elem: Array{Elem: Primitive{Kind: KindUint8}, Dims: []int{2}},
			Dims: []int{2},
		}}}},
		{"overflow", "R", []Decl{{Name: "a", Type: Array{
			Elem: Primitive{Kind: KindUint64},
			Dims: []int{1 << 20, 1 << 20},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.record, tt.decls, endian.Unspecified)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.ErrSchemaDefinition) {
				t.Errorf("error = %v, want schema definition error", err)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	r := NewRegistry()
	p, err := NewBuilder("Point").In(r).Type("x", "uint16").Type("y", "ushort").Build()
	if err != nil {
		t.Fatalf("Build Point failed: %v", err)
	}
	if got, ok := r.Lookup("Point"); !ok || got != p {
		t.Error("Point should be registered")
	}

	rect, err := NewBuilder("Rect").In(r).Type("a", "Point").Type("b", "Point").Endianness(endian.Big).Build()
	if err != nil {
		t.Fatalf("Build Rect failed: %v", err)
	}
	if rect.Width != 8 {
		t.Errorf("Rect.Width = %d, want 8", rect.Width)
	}
	if rect.Endianness != endian.Big {
		t.Errorf("Rect.Endianness = %v, want BIG", rect.Endianness)
	}

	_, err = NewBuilder("Bad").In(r).Type("a", "Circle").Type("b", "uint8").Build()
	if !stderrors.Is(err, errors.ErrSchemaDefinition) {
		t.Errorf("unknown type: error = %v, want schema definition error", err)
	}
	if _, ok := r.Lookup("Bad"); ok {
		t.Error("failed record should not be registered")
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild should panic on error")
		}
	}()
	NewBuilder("Bad").Type("a", "uint8[0]").MustBuild()
}

func TestCompile_DimsAreCopied(t *testing.T) {
	dims := []int{2, 3}
	s, err := Compile("Grid", []Decl{
		{Name: "m", Type: Array{Elem: Primitive{Kind: KindUint8}, Dims: dims}},
	}, endian.Unspecified)
	if err != nil {
		t.Fatal(err)
	}
	dims[1] = 50

	f, _ := s.Field("m")
	if got := Dims(f.Type); got[0] != 2 || got[1] != 3 {
		t.Errorf("compiled dims = %v, want [2 3]", got)
	}
	if f.Width != 6 || s.Width != 6 || s.Format != "6B" {
		t.Errorf("width %d/%d format %q, want 6/6 6B", f.Width, s.Width, s.Format)
	}
}
