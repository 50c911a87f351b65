// Package codec encodes and decodes the leaf values of a packed record.
//
// # Contents
//
//   - coerce.go: width-checked conversion of Go values to primitive bit patterns
//   - primitive.go: byte-order aware load and store of primitives
//   - strings.go: fixed-length, null-padded strings
//
// Validation and storage are split so callers can check a whole batch of
// values before writing any of them.
//
// This package is internal to the view engine.
package codec
