package schema

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
)

// FromWIT compiles a WIT record (or tuple) into a packed schema registered
// in r. Nested records are compiled and registered first. Field names are
// converted from kebab-case to snake_case; tuple members are named f0, f1,
// and so on. Anonymous nested types are named Parent_field. WIT types without a fixed width (string, list, option,
// variants, resources) and char are rejected.
//
// The result follows this package's packed layout, not the Canonical ABI
// layout: WIT alignment padding is not reproduced.
func FromWIT(t *wit.TypeDef, r *Registry) (*Schema, error) {
	return fromWIT(t, "", r, nil)
}

// fallback names anonymous nested types after their parent and field.
func fromWIT(t *wit.TypeDef, fallback string, r *Registry, seen map[*wit.TypeDef]bool) (*Schema, error) {
	if t == nil {
		return nil, errors.SchemaDefinition("", nil, "nil WIT type")
	}
	name := witName(t)
	if name == "" {
		name = fallback
	}
	if name == "" {
		return nil, errors.SchemaDefinition("", nil, "WIT %s has no name", witKindName(t.Kind))
	}
	if s, ok := r.Lookup(name); ok {
		return s, nil
	}
	if seen[t] {
		return nil, errors.SchemaDefinition(name, nil, "recursive WIT type")
	}
	if seen == nil {
		seen = make(map[*wit.TypeDef]bool)
	}
	seen[t] = true

	var decls []Decl
	switch kind := t.Kind.(type) {
	case *wit.Record:
		for _, f := range kind.Fields {
			ft, err := witFieldType(name, f.Name, f.Type, r, seen)
			if err != nil {
				return nil, err
			}
			decls = append(decls, Decl{Name: snakeCase(f.Name), Type: ft})
		}
	case *wit.Tuple:
		for i, typ := range kind.Types {
			fieldName := fmt.Sprintf("f%d", i)
			ft, err := witFieldType(name, fieldName, typ, r, seen)
			if err != nil {
				return nil, err
			}
			decls = append(decls, Decl{Name: fieldName, Type: ft})
		}
	default:
		return nil, errors.SchemaDefinition(name, nil, "WIT %s cannot be laid out as a record", witKindName(t.Kind))
	}

	return r.Compile(name, decls, endian.Unspecified)
}

func witFieldType(schema, field string, t wit.Type, r *Registry, seen map[*wit.TypeDef]bool) (TypeSpec, error) {
	switch v := t.(type) {
	case wit.Bool:
		return Primitive{Kind: KindBool}, nil
	case wit.U8:
		return Primitive{Kind: KindUint8}, nil
	case wit.S8:
		return Primitive{Kind: KindInt8}, nil
	case wit.U16:
		return Primitive{Kind: KindUint16}, nil
	case wit.S16:
		return Primitive{Kind: KindInt16}, nil
	case wit.U32:
		return Primitive{Kind: KindUint32}, nil
	case wit.S32:
		return Primitive{Kind: KindInt32}, nil
	case wit.U64:
		return Primitive{Kind: KindUint64}, nil
	case wit.S64:
		return Primitive{Kind: KindInt64}, nil
	case wit.F32:
		return Primitive{Kind: KindFloat32}, nil
	case wit.F64:
		return Primitive{Kind: KindFloat64}, nil
	case *wit.TypeDef:
		switch kind := v.Kind.(type) {
		case *wit.Record, *wit.Tuple:
			s, err := fromWIT(v, schema+"_"+snakeCase(field), r, seen)
			if err != nil {
				return nil, err
			}
			return Composite{Schema: s}, nil
		case wit.Type:
			// type alias
			return witFieldType(schema, field, kind, r, seen)
		}
		return nil, errors.SchemaDefinition(schema, []string{field}, "WIT %s has no fixed width", witKindName(v.Kind))
	}
	return nil, errors.SchemaDefinition(schema, []string{field}, "WIT type %T has no fixed-width packed form", t)
}

func witName(t *wit.TypeDef) string {
	if t.Name == nil {
		return ""
	}
	return *t.Name
}

func witKindName(k wit.TypeDefKind) string {
	switch k.(type) {
	case *wit.Record:
		return "record"
	case *wit.Tuple:
		return "tuple"
	case *wit.List:
		return "list"
	case *wit.Option:
		return "option"
	case *wit.Result:
		return "result"
	case *wit.Variant:
		return "variant"
	case *wit.Enum:
		return "enum"
	case *wit.Flags:
		return "flags"
	}
	return fmt.Sprintf("%T", k)
}

func snakeCase(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
