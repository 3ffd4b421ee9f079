// Package cerrors defines the error taxonomy SPEC_FULL.md §7 calls for:
// small marker interfaces callers can type-assert for, in the same idiom
// the teacher's own proto package uses for RequiredNotSetError and
// invalidUTF8Error — a concrete error type plus a single boolean-returning
// marker method, rather than a sentinel value every package must import.
package cerrors

import (
	"errors"
	"fmt"
)

// SchemaError is satisfied by errors produced while parsing or validating
// a .odvd schema (component A): unknown types, duplicate ids, malformed
// literals.
type SchemaError interface {
	error
	Schema() bool
}

// WireError is satisfied by errors produced while decoding an on-wire
// payload (components D, G, I): truncated input, a field whose wire type
// does not match its declared type, a malformed frame header.
type WireError interface {
	error
	Wire() bool
}

// schemaError is the concrete SchemaError returned by NewSchemaError.
// odvd.ParseError satisfies SchemaError with its own type.
type schemaError struct {
	kind string
	msg  string
}

func (e *schemaError) Error() string {
	if e.kind == "" {
		return fmt.Sprintf("odvd: %s", e.msg)
	}
	return fmt.Sprintf("odvd: %s: %s", e.kind, e.msg)
}

func (e *schemaError) Schema() bool { return true }

// NewSchemaError builds a SchemaError tagged with kind (e.g. "unknown
// type", "duplicate field id") for callers that want to report a category
// rather than parse an error string.
func NewSchemaError(kind, format string, args ...any) error {
	return &schemaError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// wireError is the concrete WireError returned by NewWireError. wire.Error
// (also returned by protocodec and envelope) and lcm's truncation error
// satisfy WireError with their own types.
type wireError struct {
	msg string
}

func (e *wireError) Error() string { return fmt.Sprintf("wire: %s", e.msg) }
func (e *wireError) Wire() bool    { return true }

// NewWireError builds a WireError from a formatted message.
func NewWireError(format string, args ...any) error {
	return &wireError{msg: fmt.Sprintf(format, args...)}
}

// IsSchemaError reports whether err (or anything it wraps, via the
// standard errors.Is/As mechanism callers are expected to use with
// fmt.Errorf("%w", ...)) is a SchemaError.
func IsSchemaError(err error) bool {
	var se SchemaError
	return errors.As(err, &se) && se.Schema()
}

// IsWireError reports whether err is a WireError.
func IsWireError(err error) bool {
	we, ok := err.(WireError)
	return ok && we.Wire()
}
