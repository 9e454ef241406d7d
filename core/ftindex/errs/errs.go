// Package errs defines the error-code taxonomy surfaced by the indexing
// core to its callers. Errors are plain sentinel values (following the
// convention used throughout this codebase) tagged with a Code so a caller
// that only cares about the code can recover it without string matching.
package errs

import "errors"

// Code classifies an ingest or GC failure for callers that branch on it.
type Code string

const (
	// CodeDupField marks a document that named the same FieldSpec twice.
	CodeDupField Code = "DUPFIELD"
	// CodeUnsuppType marks a requested indexAs not contained in the
	// FieldSpec's declared types.
	CodeUnsuppType Code = "UNSUPPTYPE"
	// CodeNotNumeric marks text that failed to parse as a float64 for a
	// NUMERIC field.
	CodeNotNumeric Code = "NOTNUMERIC"
	// CodeGeoFormat marks geo text that could not be split into lon/lat.
	CodeGeoFormat Code = "GEOFORMAT"
	// CodeNoDoc marks a request naming a document key the metadata store
	// does not hold (Pipeline.Delete of an unknown key). A partial update
	// of a missing document fails with CodeGeneric instead.
	CodeNoDoc Code = "NODOC"
	// CodeGeneric is the fallback code for ingest failures that did not
	// set a more specific code.
	CodeGeneric Code = "GENERIC"
	// CodeInval marks a BUG-class failure: an unreachable state was
	// reached (e.g. an unknown field-type bit in the bulk indexer).
	CodeInval Code = "INVAL"
)

// codedError pairs a sentinel error with its Code and is what CodeOf
// unwraps to recover the code.
type codedError struct {
	code Code
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }
func (e *codedError) Code() Code    { return e.code }

// New creates an error carrying the given code and message.
func New(code Code, message string) error {
	return &codedError{code: code, err: errors.New(message)}
}

// Wrap attaches a code to an existing error without discarding it.
func Wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// coder is implemented by errors produced via New/Wrap.
type coder interface {
	Code() Code
}

// CodeOf returns the Code attached to err, and CodeGeneric with ok=false if
// err (or any error it wraps) does not carry one.
func CodeOf(err error) (Code, bool) {
	var c coder
	if errors.As(err, &c) {
		return c.Code(), true
	}
	return CodeGeneric, false
}

// HasCode reports whether err already carries a specific code (not unset).
// The outer ingest pipeline uses this to avoid overwriting a preprocessor's
// specific code with the generic one: it checks and skips when one is
// already set.
func HasCode(err error) bool {
	_, ok := CodeOf(err)
	return ok
}

var (
	// ErrFieldNotFound names the unknown-field condition. No code path in
	// this module returns it: IndexSpec.FieldByName reports an unknown
	// name with ok=false, and SetDocument skips such a field.
	ErrFieldNotFound = errors.New("field not found in schema")

	// ErrSpecGone describes a spec that has been recreated (uniqueId
	// changed) or removed. The gc package does not return this value; its
	// passes return gc.ErrSpecGone.
	ErrSpecGone = New(CodeInval, "index spec is no longer valid")
)
