package schema

import (
	"strconv"
	"strings"

	"github.com/wippyai/memlayout/errors"
)

// Resolver looks up record types by name.
type Resolver interface {
	Lookup(name string) (*Schema, bool)
}

// ParseType parses a type expression:
//
//	uint16           primitive
//	uint16[3,2]      array of primitives, dimensions outermost-last
//	string[10]       fixed-length string of 10 bytes
//	string[10,2]     two strings of 10 bytes
//	Point            record registered in r
//	Point[2,2]       array of records
//
// Primitive aliases (double, short, ...) are accepted.
func ParseType(expr string, r Resolver) (TypeSpec, error) {
	name, dims, err := splitTypeExpr(expr)
	if err != nil {
		return nil, err
	}

	if name == StringKindName {
		if len(dims) == 0 {
			return nil, parseError(expr, "string requires a length dimension")
		}
		elem := FixedString{Length: dims[0]}
		if len(dims) == 1 {
			return elem, nil
		}
		return Array{Elem: elem, Dims: dims[1:]}, nil
	}

	var elem TypeSpec
	if k, ok := LookupKind(name); ok {
		elem = Primitive{Kind: k}
	} else if r != nil {
		if s, ok := r.Lookup(name); ok {
			elem = Composite{Schema: s}
		}
	}
	if elem == nil {
		return nil, parseError(expr, "unknown type "+strconv.Quote(name))
	}

	if len(dims) == 0 {
		return elem, nil
	}
	return Array{Elem: elem, Dims: dims}, nil
}

func splitTypeExpr(expr string) (string, []int, error) {
	s := strings.TrimSpace(expr)
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if s == "" {
			return "", nil, parseError(expr, "empty type")
		}
		return s, nil, nil
	}

	name := strings.TrimSpace(s[:open])
	if name == "" {
		return "", nil, parseError(expr, "missing type name")
	}
	if !strings.HasSuffix(s, "]") {
		return "", nil, parseError(expr, "missing closing bracket")
	}

	body := s[open+1 : len(s)-1]
	if strings.ContainsAny(body, "[]") {
		return "", nil, parseError(expr, "dimensions must be listed in one bracket pair")
	}
	parts := strings.Split(body, ",")
	dims := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		d, err := strconv.Atoi(p)
		if err != nil || d <= 0 {
			return "", nil, parseError(expr, "dimensions must be positive integers, got "+strconv.Quote(p))
		}
		dims = append(dims, d)
	}
	return name, dims, nil
}

func parseError(expr, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindSchemaDefinition).
		Type(expr).
		Detail("%s", detail).
		Build()
}
