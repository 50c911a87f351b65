package view

import (
	"github.com/wippyai/memlayout/errors"
	"github.com/wippyai/memlayout/schema"
)

// Array is an index-addressable proxy over an array field. Index 0 of the
// proxy walks the outermost (last declared) dimension; indexing a
// multi-dimensional array yields a proxy over the remaining dimensions.
type Array struct {
	owner    *View
	bind     *binding
	elem     schema.TypeSpec
	dims     []int
	path     []string
	subs     map[int]*View
	children map[int]*Array
	offset   int
}

func (v *View) newArray(elem schema.TypeSpec, dims []int, offset int, path []string) *Array {
	return &Array{
		owner:  v,
		bind:   v.bind,
		elem:   elem,
		dims:   dims,
		offset: offset,
		path:   path,
	}
}

// Len returns the number of items at the outermost level.
func (a *Array) Len() int { return a.dims[len(a.dims)-1] }

// Dims returns the remaining dimensions, declared order (outermost last).
func (a *Array) Dims() []int { return append([]int(nil), a.dims...) }

// Elem returns the element type.
func (a *Array) Elem() schema.TypeSpec { return a.elem }

// Offset returns the absolute offset of the first element.
func (a *Array) Offset() int { return a.offset }

func (a *Array) check(phase errors.Phase) error {
	if a.bind.released || a.owner.bind != a.bind {
		return errors.Detached(phase, a.owner.schema.Name, a.path)
	}
	return nil
}

// item resolves index i into a node: a sub-array, a sub-view or a leaf.
func (a *Array) item(phase errors.Phase, i int) (node, error) {
	if err := a.check(phase); err != nil {
		return node{}, err
	}
	if i < 0 || i >= a.Len() {
		return node{}, errors.OutOfBounds(phase, a.path, i, a.Len())
	}
	path := indexPath(a.path, i)
	off := a.offset + i*strideOf(a.elem, a.dims)

	if len(a.dims) > 1 {
		if child, ok := a.children[i]; ok {
			return node{arr: child, path: path}, nil
		}
		child := &Array{
			owner:  a.owner,
			bind:   a.bind,
			elem:   a.elem,
			dims:   a.dims[:len(a.dims)-1],
			offset: off,
			path:   path,
		}
		if a.children == nil {
			a.children = make(map[int]*Array)
		}
		a.children[i] = child
		return node{arr: child, path: path}, nil
	}

	if c, ok := a.elem.(schema.Composite); ok {
		if sv, ok := a.subs[i]; ok && sv.bind == a.bind {
			return node{view: sv, path: path}, nil
		}
		sv := a.owner.sub(c.Schema, off)
		if a.subs == nil {
			a.subs = make(map[int]*View)
		}
		a.subs[i] = sv
		return node{view: sv, path: path}, nil
	}
	return node{owner: a.owner, leaf: a.elem, off: off, path: path}, nil
}

// Index returns item i: a decoded leaf value, a *View for composite
// elements, or an *Array over the remaining dimensions.
func (a *Array) Index(i int) (any, error) {
	n, err := a.item(errors.PhaseRead, i)
	if err != nil {
		return nil, err
	}
	return n.get()
}

// At indexes through several levels at once, outermost first.
func (a *Array) At(indices ...int) (any, error) {
	n, err := a.at(errors.PhaseRead, indices)
	if err != nil {
		return nil, err
	}
	return n.get()
}

func (a *Array) at(phase errors.Phase, indices []int) (node, error) {
	if len(indices) == 0 {
		return node{arr: a, path: a.path}, nil
	}
	cur := a
	for k, i := range indices {
		n, err := cur.item(phase, i)
		if err != nil {
			return node{}, err
		}
		if k == len(indices)-1 {
			return n, nil
		}
		if n.arr == nil {
			return node{}, errors.New(phase, errors.KindTypeMismatch).
				Path(n.path...).
				Detail("too many indices for %d-dimensional array", len(a.dims)).
				Build()
		}
		cur = n.arr
	}
	return node{}, nil
}

// Set assigns item i. For a multi-dimensional array the value must be a
// sequence shaped like the remaining dimensions.
func (a *Array) Set(i int, value any) error {
	n, err := a.item(errors.PhaseWrite, i)
	if err != nil {
		return err
	}
	return n.set(value)
}

// SetAll assigns the whole array from a nested sequence whose outermost
// level matches Len. Every item is validated before any byte is written.
// Arrays of records cannot be assigned.
func (a *Array) SetAll(value any) error {
	if err := a.check(errors.PhaseWrite); err != nil {
		return err
	}
	if c, ok := a.elem.(schema.Composite); ok {
		return errors.AssignmentNotSupported(a.path, c.String())
	}
	data, err := a.owner.writable(a.path)
	if err != nil {
		return err
	}
	p := plan{phase: errors.PhaseWrite}
	if err := p.array(a.elem, a.dims, a.offset, value, a.path); err != nil {
		return err
	}
	p.apply(data, a.owner.order)
	return nil
}

// Values decodes the array into nested slices, outermost level first.
// Composite elements decode to maps.
func (a *Array) Values() ([]any, error) {
	if err := a.check(errors.PhaseRead); err != nil {
		return nil, err
	}
	data, err := a.owner.readable(a.path)
	if err != nil {
		return nil, err
	}
	return decodeArray(data, a.elem, a.dims, a.offset, a.owner.order), nil
}
