package view

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
	"github.com/wippyai/memlayout/schema"
)

func populatedRect(t *testing.T, rect *schema.Schema) (*View, []byte) {
	t.Helper()
	buf := make([]byte, 8)
	v := mustNew(t, rect, buf, WithEndianness(endian.Little))
	mustSet(t, v, "a.x", 1)
	mustSet(t, v, "a.y", 2)
	mustSet(t, v, "b.x", 3)
	mustSet(t, v, "b.y", 4)
	return v, buf
}

func TestToMap(t *testing.T) {
	_, _, rect := shapes(t)
	v, _ := populatedRect(t, rect)

	got, err := v.ToMap()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"a": map[string]any{"x": uint16(1), "y": uint16(2)},
		"b": map[string]any{"x": uint16(3), "y": uint16(4)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToMap = %v, want %v", got, want)
	}
}

func TestFillFromMap_Partial(t *testing.T) {
	_, _, rect := shapes(t)

	t.Run("keep unset", func(t *testing.T) {
		v, buf := populatedRect(t, rect)
		if err := v.FillFromMap(map[string]any{"b": map[string]any{"x": 9}}); err != nil {
			t.Fatal(err)
		}
		if want := []byte{1, 0, 2, 0, 9, 0, 4, 0}; !bytes.Equal(buf, want) {
			t.Errorf("buffer = % x, want % x", buf, want)
		}
	})

	t.Run("clear unset", func(t *testing.T) {
		v, buf := populatedRect(t, rect)
		if err := v.FillFromMap(map[string]any{"b": map[string]any{"x": 9}}, ClearUnset()); err != nil {
			t.Fatal(err)
		}
		if want := []byte{0, 0, 0, 0, 9, 0, 0, 0}; !bytes.Equal(buf, want) {
			t.Errorf("buffer = % x, want % x", buf, want)
		}
	})
}

func TestFillFromMap_RoundTrip(t *testing.T) {
	r := schema.NewRegistry()
	schema.NewBuilder("Item").In(r).Type("id", "uint32").Type("tag", "string[4]").MustBuild()
	s := schema.NewBuilder("Catalog").In(r).
		Type("count", "int16").
		Type("ratio", "float64").
		Type("items", "Item[2]").
		Type("grid", "int8[2,2]").
		Type("ok", "bool").
		MustBuild()

	in := map[string]any{
		"count": -3,
		"ratio": 0.5,
		"items": []any{
			map[string]any{"id": 10, "tag": "ab"},
			map[string]any{"id": 20, "tag": "wxyz"},
		},
		"grid": [][]int{{-1, 2}, {3, -4}},
		"ok":   true,
	}
	v := mustNew(t, s, make([]byte, s.Width), WithEndianness(endian.Big))
	if err := v.FillFromMap(in); err != nil {
		t.Fatalf("FillFromMap failed: %v", err)
	}

	got, err := v.ToMap()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"count": int16(-3),
		"ratio": 0.5,
		"items": []any{
			map[string]any{"id": uint32(10), "tag": "ab"},
			map[string]any{"id": uint32(20), "tag": "wxyz"},
		},
		"grid": []any{[]any{int8(-1), int8(2)}, []any{int8(3), int8(-4)}},
		"ok":   true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToMap = %v, want %v", got, want)
	}

	other := mustNew(t, s, make([]byte, s.Width), WithEndianness(endian.Little))
	if err := other.FillFromMap(got); err != nil {
		t.Fatalf("FillFromMap(ToMap()) failed: %v", err)
	}
	again, _ := other.ToMap()
	if !reflect.DeepEqual(again, want) {
		t.Errorf("round trip = %v, want %v", again, want)
	}
}

func TestFillFromMap_Errors(t *testing.T) {
	r := schema.NewRegistry()
	schema.NewBuilder("P").In(r).Type("x", "uint8").Type("y", "uint8").MustBuild()
	s := schema.NewBuilder("Holder").In(r).
		Type("p", "P").
		Type("m", "uint8[2,2]").
		Type("s", "string[2]").
		MustBuild()

	tests := []struct {
		name string
		in   map[string]any
		want error
	}{
		{"unknown key", map[string]any{"q": 1}, errors.ErrTypeMismatch},
		{"unknown nested key", map[string]any{"p": map[string]any{"z": 1}}, errors.ErrTypeMismatch},
		{"short array", map[string]any{"m": [][]int{{1, 2}}}, errors.ErrTypeMismatch},
		{"ragged array", map[string]any{"m": [][]int{{1, 2}, {3}}}, errors.ErrTypeMismatch},
		{"scalar for record", map[string]any{"p": 5}, errors.ErrTypeMismatch},
		{"out of range", map[string]any{"p": map[string]any{"x": 300}}, errors.ErrOutOfRange},
		{"long string", map[string]any{"s": "abc"}, errors.ErrEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.Repeat([]byte{0x11}, s.Width)
			v := mustNew(t, s, buf)
			in := map[string]any{"p": map[string]any{"x": 7}}
			for k, val := range tt.in {
				in[k] = val
			}
			err := v.FillFromMap(in)
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if !bytes.Equal(buf, bytes.Repeat([]byte{0x11}, s.Width)) {
				t.Errorf("failed fill wrote to the buffer: % x", buf)
			}
		})
	}

	t.Run("unknown key is also unknown field", func(t *testing.T) {
		v := mustNew(t, s, make([]byte, s.Width))
		err := v.FillFromMap(map[string]any{"q": 1})
		if !stderrors.Is(err, errors.ErrUnknownField) {
			t.Errorf("error = %v, want unknown field cause", err)
		}
	})

	t.Run("clear happens before validation", func(t *testing.T) {
		buf := bytes.Repeat([]byte{0x11}, s.Width)
		v := mustNew(t, s, buf)
		err := v.FillFromMap(map[string]any{"p": map[string]any{"x": 300}}, ClearUnset())
		if !stderrors.Is(err, errors.ErrOutOfRange) {
			t.Fatalf("error = %v, want out of range", err)
		}
		want := append([]byte{0x11}, make([]byte, s.Width-1)...)
		if !bytes.Equal(buf, want) {
			t.Errorf("buffer = % x, want % x", buf, want)
		}
	})
}

func TestFillFromMap_ClearUnsetArrayOfRecords(t *testing.T) {
	r := schema.NewRegistry()
	schema.NewBuilder("Pair").In(r).Type("a", "uint8").Type("b", "uint8").MustBuild()
	s := schema.NewBuilder("Pairs").In(r).Type("pairs", "Pair[2]").Type("n", "uint8").MustBuild()

	buf := bytes.Repeat([]byte{5}, s.Width)
	v := mustNew(t, s, buf)
	err := v.FillFromMap(map[string]any{
		"pairs": []map[string]any{{"a": 1}, {"b": 2}},
	}, ClearUnset())
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{1, 0, 0, 2, 0}; !bytes.Equal(buf, want) {
		t.Errorf("buffer = % x, want % x", buf, want)
	}
}

func TestFillFrom(t *testing.T) {
	_, _, rect := shapes(t)
	src, _ := populatedRect(t, rect)

	dstBuf := bytes.Repeat([]byte{0xcc}, 12)
	dst := mustNew(t, rect, dstBuf, WithOffset(2), WithEndianness(endian.Little))
	if err := dst.FillFrom(src); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dstBuf[:2], []byte{0xcc, 0xcc}) || !bytes.Equal(dstBuf[10:], []byte{0xcc, 0xcc}) {
		t.Errorf("bytes outside the record changed: % x", dstBuf)
	}
	srcMap, _ := src.ToMap()
	dstMap, _ := dst.ToMap()
	if !reflect.DeepEqual(srcMap, dstMap) {
		t.Errorf("FillFrom = %v, want %v", dstMap, srcMap)
	}
}

func TestFillFrom_ByteOrderConversion(t *testing.T) {
	s := schema.NewBuilder("Mixed").
		Type("a", "uint16").
		Type("b", "int32[2]").
		Type("c", "float64").
		Type("d", "string[3]").
		Type("e", "uint8").
		MustBuild()

	src := mustNew(t, s, make([]byte, s.Width), WithEndianness(endian.Little))
	in := map[string]any{
		"a": 0x0102,
		"b": []int{-2, 70000},
		"c": 1.25,
		"d": "abc",
		"e": 9,
	}
	if err := src.FillFromMap(in); err != nil {
		t.Fatal(err)
	}

	dstBuf := make([]byte, s.Width)
	dst := mustNew(t, s, dstBuf, WithEndianness(endian.Big))
	if err := dst.FillFrom(src); err != nil {
		t.Fatal(err)
	}
	if dstBuf[0] != 0x01 || dstBuf[1] != 0x02 {
		t.Errorf("a stored as % x, want big endian 01 02", dstBuf[:2])
	}
	srcMap, _ := src.ToMap()
	dstMap, _ := dst.ToMap()
	if !reflect.DeepEqual(srcMap, dstMap) {
		t.Errorf("FillFrom across byte orders = %v, want %v", dstMap, srcMap)
	}
}

func TestFillFrom_Errors(t *testing.T) {
	_, point, rect := shapes(t)
	dst := mustNew(t, rect, make([]byte, 8))
	other := mustNew(t, point, make([]byte, 4))

	if err := dst.FillFrom(other); !stderrors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("different schema: error = %v, want type mismatch", err)
	}
	if err := dst.FillFrom(nil); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("nil source: error = %v, want invalid input", err)
	}

	same := schema.NewBuilder("RectCopy").
		Field("a", schema.Composite{Schema: point}).
		Field("b", schema.Composite{Schema: point}).
		MustBuild()
	src := mustNew(t, same, make([]byte, 8))
	if err := dst.FillFrom(src); err != nil {
		t.Errorf("equal layouts under different names should be compatible: %v", err)
	}

	src.Free()
	if err := dst.FillFrom(src); !stderrors.Is(err, errors.ErrDetachedBuffer) {
		t.Errorf("detached source: error = %v, want detached", err)
	}
}

func TestToMap_DimsFixedAtBuild(t *testing.T) {
	dims := []int{2, 3}
	s := schema.NewBuilder("Grid2").
		Field("m", schema.Array{Elem: schema.Primitive{Kind: schema.KindUint8}, Dims: dims}).
		MustBuild()
	dims[1] = 50

	v := mustNew(t, s, []byte{1, 2, 3, 4, 5, 6})
	got, err := v.ToMap()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"m": []any{
		[]any{uint8(1), uint8(2)},
		[]any{uint8(3), uint8(4)},
		[]any{uint8(5), uint8(6)},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToMap = %v, want %v", got, want)
	}
}
