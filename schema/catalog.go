package schema

// Char is the decoded value of a char field. It is distinct from uint8 so
// decoded records keep the two apart; it marshals as a one-byte string.
type Char byte

func (c Char) String() string { return string([]byte{byte(c)}) }

// MarshalText implements encoding.TextMarshaler.
func (c Char) MarshalText() ([]byte, error) { return []byte{byte(c)}, nil }

// Kind is a primitive field kind.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUint8
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
	KindChar
)

type kindInfo struct {
	name  string
	width int
	tag   byte
}

var kinds = [...]kindInfo{
	KindInvalid: {"invalid", 0, 0},
	KindUint8:   {"uint8", 1, 'B'},
	KindInt8:    {"int8", 1, 'b'},
	KindUint16:  {"uint16", 2, 'H'},
	KindInt16:   {"int16", 2, 'h'},
	KindUint32:  {"uint32", 4, 'I'},
	KindInt32:   {"int32", 4, 'i'},
	KindUint64:  {"uint64", 8, 'Q'},
	KindInt64:   {"int64", 8, 'q'},
	KindFloat32: {"float32", 4, 'f'},
	KindFloat64: {"float64", 8, 'd'},
	KindBool:    {"bool", 1, '?'},
	KindChar:    {"char", 1, 'c'},
}

// StringTag is the encoding tag of fixed-length strings.
const StringTag = 's'

// StringKindName is the type name used to declare fixed-length strings.
const StringKindName = "string"

var aliases = map[string]Kind{
	"ubyte":  KindUint8,
	"byte":   KindInt8,
	"ushort": KindUint16,
	"short":  KindInt16,
	"float":  KindFloat32,
	"double": KindFloat64,
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(kinds)+len(aliases))
	for k := KindUint8; int(k) < len(kinds); k++ {
		m[kinds[k].name] = k
	}
	for name, k := range aliases {
		m[name] = k
	}
	return m
}()

// LookupKind resolves a primitive kind name or alias.
func LookupKind(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

func (k Kind) String() string {
	if int(k) < len(kinds) {
		return kinds[k].name
	}
	return "unknown"
}

// Width returns the encoded size in bytes.
func (k Kind) Width() int {
	if int(k) < len(kinds) {
		return kinds[k].width
	}
	return 0
}

// Tag returns the single-character encoding tag.
func (k Kind) Tag() byte {
	if int(k) < len(kinds) {
		return kinds[k].tag
	}
	return 0
}

// Valid reports whether k is a known primitive kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && int(k) < len(kinds)
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

func (k Kind) IsUnsigned() bool {
	switch k {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}
