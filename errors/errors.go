package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile   Phase = "compile"   // schema compilation
	PhaseConstruct Phase = "construct" // view construction and attach
	PhaseRead      Phase = "read"      // field decode
	PhaseWrite     Phase = "write"     // field encode
	PhaseTransfer  Phase = "transfer"  // fill-from and map import/export
	PhaseConfig    Phase = "config"    // process configuration
	PhaseParse     Phase = "parse"     // type expressions and declaration files
)

// Kind categorizes the error
type Kind string

const (
	KindSchemaDefinition       Kind = "schema_definition"
	KindBufferTooSmall         Kind = "buffer_too_small"
	KindDetachedBuffer         Kind = "detached_buffer"
	KindTypeMismatch           Kind = "type_mismatch"
	KindOutOfRange             Kind = "out_of_range"
	KindEncoding               Kind = "encoding"
	KindAssignmentNotSupported Kind = "assignment_not_supported"
	KindReadOnlyBuffer         Kind = "read_only_buffer"
	KindUnknownField           Kind = "unknown_field"
	KindInvalidInput           Kind = "invalid_input"
)

// Sentinels for errors.Is. They match any *Error of the same Kind
// regardless of phase.
var (
	ErrSchemaDefinition       = &Error{Kind: KindSchemaDefinition}
	ErrBufferTooSmall         = &Error{Kind: KindBufferTooSmall}
	ErrDetachedBuffer         = &Error{Kind: KindDetachedBuffer}
	ErrTypeMismatch           = &Error{Kind: KindTypeMismatch}
	ErrOutOfRange             = &Error{Kind: KindOutOfRange}
	ErrEncoding               = &Error{Kind: KindEncoding}
	ErrAssignmentNotSupported = &Error{Kind: KindAssignmentNotSupported}
	ErrReadOnlyBuffer         = &Error{Kind: KindReadOnlyBuffer}
	ErrUnknownField           = &Error{Kind: KindUnknownField}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Schema string
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 || e.Schema != "" {
		b.WriteString(" at ")
		if e.Schema != "" {
			b.WriteString(e.Schema)
			if len(e.Path) > 0 {
				b.WriteByte('.')
			}
		}
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Schema sets the record type name
func (b *Builder) Schema(name string) *Builder {
	b.err.Schema = name
	return b
}

// Type sets the declared field type
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// SchemaDefinition creates a schema definition error
func SchemaDefinition(schema string, path []string, detail string, args ...any) *Error {
	return New(PhaseCompile, KindSchemaDefinition).
		Schema(schema).
		Path(path...).
		Detail(detail, args...).
		Build()
}

// BufferTooSmall creates a buffer length error
func BufferTooSmall(schema string, have, need int) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindBufferTooSmall,
		Schema: schema,
		Detail: fmt.Sprintf("buffer too small: got %d bytes, need %d", have, need),
		Value:  have,
	}
}

// Detached creates an error for operations on a freed or stale view
func Detached(phase Phase, schema string, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDetachedBuffer,
		Schema: schema,
		Path:   path,
		Detail: "view has no buffer attached",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   want,
		Detail: fmt.Sprintf("cannot use %s", got),
	}
}

// OutOfRange creates a numeric range error
func OutOfRange(path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindOutOfRange,
		Path:   path,
		Type:   targetType,
		Detail: fmt.Sprintf("value %v is not representable as %s", value, targetType),
		Value:  value,
	}
}

// Encoding creates a fixed-length string overflow error
func Encoding(path []string, length, maxLength int) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindEncoding,
		Path:   path,
		Type:   fmt.Sprintf("string[%d]", maxLength),
		Detail: fmt.Sprintf("string is too long (%d bytes), maximum is %d bytes", length, maxLength),
		Value:  length,
	}
}

// AssignmentNotSupported creates an error for whole-value assignment of a
// composite field
func AssignmentNotSupported(path []string, typeName string) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindAssignmentNotSupported,
		Path:   path,
		Type:   typeName,
		Detail: "composite fields are mutated through their own fields",
	}
}

// ReadOnly creates an error for writes to an immutable buffer
func ReadOnly(path []string) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindReadOnlyBuffer,
		Path:   path,
		Detail: "buffer is not writable",
	}
}

// UnknownField creates an unknown field error
func UnknownField(phase Phase, schema string, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownField,
		Schema: schema,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// OutOfBounds creates an array index error. It is a type mismatch: the
// index does not fit the declared shape.
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSchemaDefinition,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
