package packset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/packset/internal/msgtree"
	"github.com/hupe1980/packset/internal/sortedset"
)

var (
	// ErrIntegerOverflow is returned when a value does not fit the target
	// integer width (e.g. an unsigned element above math.MaxInt64 on Decode,
	// or a negative value on DecodeBitmap).
	ErrIntegerOverflow = sortedset.ErrIntegerOverflow
)

// ParseError indicates a malformed MessagePack buffer.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ParseError struct {
	Offset int
	Reason string
	cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.cause }

// NotAnArrayError indicates a buffer whose root value is not an array.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type NotAnArrayError struct {
	Actual string
	cause  error
}

func (e *NotAnArrayError) Error() string {
	return fmt.Sprintf("invalid root node type: expected array, got %s", e.Actual)
}

func (e *NotAnArrayError) Unwrap() error { return e.cause }

// NonIntegerElementError indicates an array element that is not an integer.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type NonIntegerElementError struct {
	Index  int
	Offset int
	Actual string
	cause  error
}

func (e *NonIntegerElementError) Error() string {
	return fmt.Sprintf("invalid array element %d at offset %d: expected int or uint, got %s", e.Index, e.Offset, e.Actual)
}

func (e *NonIntegerElementError) Unwrap() error { return e.cause }

// EncodingError indicates that a set could not be encoded.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type EncodingError struct {
	Count int
	cause error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %v", e.cause)
}

func (e *EncodingError) Unwrap() error { return e.cause }

// UnsortedError indicates an encoded array that is not strictly ascending.
// It is only reported when WithVerifySorted is enabled.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type UnsortedError struct {
	Index int
	cause error
}

func (e *UnsortedError) Error() string {
	return fmt.Sprintf("array element %d is not greater than its predecessor", e.Index)
}

func (e *UnsortedError) Unwrap() error { return e.cause }

// ArityError indicates a call with too few arguments at a host binding.
type ArityError struct {
	Func string
	Min  int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: must have at least %d arguments, got %d", e.Func, e.Min, e.Got)
}

// ArgumentError indicates an argument of the wrong type at a host binding.
type ArgumentError struct {
	Func     string
	Index    int
	Expected string
	Actual   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument %d must be %s, got %s", e.Func, e.Index+1, e.Expected, e.Actual)
}

// RowError identifies the row that failed during Filter.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type RowError struct {
	Row   int
	cause error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.cause)
}

func (e *RowError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pe *msgtree.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Offset: pe.Offset, Reason: pe.Reason, cause: err}
	}
	var nae *sortedset.NotAnArrayError
	if errors.As(err, &nae) {
		return &NotAnArrayError{Actual: nae.Actual.String(), cause: err}
	}
	var nie *sortedset.NonIntegerElementError
	if errors.As(err, &nie) {
		return &NonIntegerElementError{Index: nie.Index, Offset: nie.Offset, Actual: nie.Actual.String(), cause: err}
	}
	var ee *sortedset.EncodingError
	if errors.As(err, &ee) {
		return &EncodingError{Count: ee.Count, cause: err}
	}
	var ue *sortedset.UnsortedError
	if errors.As(err, &ue) {
		return &UnsortedError{Index: ue.Index, cause: err}
	}

	return err
}
