package view

import (
	"strconv"
	"strings"

	"github.com/wippyai/memlayout/errors"
)

// step is one dotted path component: a field name and optional indices,
// outermost first.
type step struct {
	name    string
	indices []int
}

func parsePath(phase errors.Phase, path string) ([]step, error) {
	if path == "" {
		return nil, pathError(phase, path, "empty path")
	}
	parts := strings.Split(path, ".")
	steps := make([]step, 0, len(parts))
	for _, part := range parts {
		st, err := parseStep(phase, path, part)
		if err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	return steps, nil
}

func parseStep(phase errors.Phase, path, part string) (step, error) {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		if part == "" {
			return step{}, pathError(phase, path, "empty field name")
		}
		return step{name: part}, nil
	}
	st := step{name: part[:open]}
	if st.name == "" {
		return step{}, pathError(phase, path, "index without field name")
	}
	rest := part[open:]
	for rest != "" {
		if rest[0] != '[' {
			return step{}, pathError(phase, path, "unexpected "+strconv.Quote(rest))
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return step{}, pathError(phase, path, "missing closing bracket")
		}
		i, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil {
			return step{}, pathError(phase, path, "invalid index "+strconv.Quote(rest[1:end]))
		}
		st.indices = append(st.indices, i)
		rest = rest[end+1:]
	}
	return st, nil
}

func pathError(phase errors.Phase, path, detail string) error {
	return errors.New(phase, errors.KindInvalidInput).
		Path(path).
		Detail("%s", detail).
		Build()
}

// appendPath returns path extended by name without aliasing path.
func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

// indexPath returns path with [i] appended to its last component.
func indexPath(path []string, i int) []string {
	out := make([]string, len(path))
	copy(out, path)
	suffix := "[" + strconv.Itoa(i) + "]"
	if len(out) == 0 {
		return []string{suffix}
	}
	out[len(out)-1] += suffix
	return out
}
