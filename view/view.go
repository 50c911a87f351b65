package view

import (
	"encoding/binary"

	"go.uber.org/zap"

	memlayout "github.com/wippyai/memlayout"
	"github.com/wippyai/memlayout/config"
	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
	"github.com/wippyai/memlayout/schema"
)

// binding is one attachment of a root view to a buffer. Sub-views share
// their root's binding; Attach and Free release it, which makes every
// sub-view built on it stale.
type binding struct {
	buf      memlayout.Buffer
	released bool
}

func (b *binding) release() {
	b.released = true
	b.buf = nil
}

var detached = &binding{released: true}

// View is a typed window onto one record inside a buffer.
type View struct {
	schema *schema.Schema
	bind   *binding
	order  binary.ByteOrder

	subs   map[int]*View
	arrays map[int]*Array

	offset int

	// byte order sources, kept for re-resolution on Attach
	override       endian.Endianness
	schemaOverride endian.Endianness
	inherited      endian.Endianness
	def            endian.Endianness
	resolved       endian.Endianness

	// root views own their binding
	root bool
}

// Option configures New and Attach.
type Option func(*options)

type options struct {
	offset     int
	endianness endian.Endianness
	def        endian.Endianness
}

// WithOffset places the record at byte offset n of the buffer.
func WithOffset(n int) Option {
	return func(o *options) { o.offset = n }
}

// WithEndianness overrides the byte order for this view and its subtree.
func WithEndianness(e endian.Endianness) Option {
	return func(o *options) { o.endianness = e }
}

// WithDefault injects the process default byte order instead of reading
// it from the config package.
func WithDefault(e endian.Endianness) Option {
	return func(o *options) { o.def = e }
}

// New binds s to buf. The buffer must hold at least offset+s.Width bytes.
func New(s *schema.Schema, buf memlayout.Buffer, opts ...Option) (*View, error) {
	if s == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "nil schema")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.def == endian.Unspecified {
		o.def = config.DefaultEndianness()
	}

	v := &View{
		schema:         s,
		bind:           detached,
		override:       o.endianness,
		schemaOverride: s.Endianness,
		def:            o.def,
		root:           true,
	}
	if err := v.bindTo(buf, o.offset); err != nil {
		return nil, err
	}
	return v, nil
}

// Attach rebinds v to buf. Sub-views and array proxies obtained from v
// before the call become stale. Attaching a sub-view detaches it from its
// parent: it becomes a root view with its own binding, keeping the byte
// order it inherited unless WithEndianness says otherwise.
func (v *View) Attach(buf memlayout.Buffer, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkRange(v.schema, buf, o.offset); err != nil {
		return err
	}
	if o.endianness != endian.Unspecified {
		v.override = o.endianness
	}
	if o.def != endian.Unspecified {
		v.def = o.def
	}
	v.drop()
	v.root = true
	return v.bindTo(buf, o.offset)
}

// Free drops the buffer reference. Every field operation on v, or on any
// sub-view obtained from it, fails until the next Attach.
func (v *View) Free() {
	v.drop()
	Logger().Debug("view freed", zap.String("schema", v.schema.Name))
}

// drop releases the current binding if v owns it and forgets cached
// sub-views.
func (v *View) drop() {
	if v.root && v.bind != detached {
		v.bind.release()
	}
	v.bind = detached
	v.subs = nil
	v.arrays = nil
}

func (v *View) bindTo(buf memlayout.Buffer, offset int) error {
	if err := checkRange(v.schema, buf, offset); err != nil {
		return err
	}
	v.bind = &binding{buf: buf}
	v.offset = offset
	v.resolved = endian.Resolve(v.override, v.schemaOverride, v.inherited, v.def)
	v.order = v.resolved.ByteOrder()
	Logger().Debug("view attached",
		zap.String("schema", v.schema.Name),
		zap.Int("offset", offset),
		zap.Int("width", v.schema.Width),
		zap.Stringer("endianness", v.resolved))
	return nil
}

func checkRange(s *schema.Schema, buf memlayout.Buffer, offset int) error {
	if buf == nil {
		return errors.InvalidInput(errors.PhaseConstruct, "nil buffer")
	}
	if offset < 0 {
		return errors.New(errors.PhaseConstruct, errors.KindBufferTooSmall).
			Schema(s.Name).
			Value(offset).
			Detail("negative offset %d", offset).
			Build()
	}
	if need := offset + s.Width; buf.Len() < need {
		return errors.BufferTooSmall(s.Name, buf.Len(), need)
	}
	return nil
}

// sub builds a sub-view of schema s at absolute offset, sharing v's binding.
func (v *View) sub(s *schema.Schema, offset int) *View {
	sv := &View{
		schema:    s,
		bind:      v.bind,
		order:     v.order,
		offset:    offset,
		inherited: v.resolved,
		def:       v.def,
		resolved:  v.resolved,
	}
	Logger().Debug("sub-view constructed",
		zap.String("schema", s.Name),
		zap.Int("offset", offset))
	return sv
}

// Clear zero-fills the record's bytes, nested fields included.
func (v *View) Clear() error {
	data, err := v.writable(nil)
	if err != nil {
		return err
	}
	clear(data[v.offset : v.offset+v.schema.Width])
	return nil
}

// Schema returns the compiled record layout.
func (v *View) Schema() *schema.Schema { return v.schema }

// Offset returns the absolute offset of the record in the buffer.
func (v *View) Offset() int { return v.offset }

// Endianness returns the resolved byte order, Native included.
func (v *View) Endianness() endian.Endianness { return v.resolved }

// Attached reports whether v currently has a usable buffer.
func (v *View) Attached() bool { return !v.bind.released }

// Bytes returns the record's bytes, aliasing the buffer, or nil when the
// view is detached.
func (v *View) Bytes() []byte {
	data, err := v.readable(nil)
	if err != nil {
		return nil
	}
	return data[v.offset : v.offset+v.schema.Width : v.offset+v.schema.Width]
}

// Layout describes the record as placed in the buffer: absolute offsets
// and the resolved byte order.
func (v *View) Layout(nested bool) *schema.Layout {
	return schema.DescribeAt(v.schema, v.offset, v.resolved, nested)
}

// readable returns the whole backing slice after checking the binding.
func (v *View) readable(path []string) ([]byte, error) {
	return v.data(errors.PhaseRead, path)
}

// writable is readable plus a writability check.
func (v *View) writable(path []string) ([]byte, error) {
	data, err := v.data(errors.PhaseWrite, path)
	if err != nil {
		return nil, err
	}
	if !memlayout.IsWritable(v.bind.buf) {
		return nil, errors.ReadOnly(path)
	}
	return data, nil
}

func (v *View) data(phase errors.Phase, path []string) ([]byte, error) {
	if v.bind.released {
		return nil, errors.Detached(phase, v.schema.Name, path)
	}
	data := v.bind.buf.Bytes()
	if len(data) < v.offset+v.schema.Width {
		return nil, errors.BufferTooSmall(v.schema.Name, len(data), v.offset+v.schema.Width)
	}
	return data, nil
}
