package sortedset

import (
	"errors"
	"fmt"

	"github.com/tinylib/msgp/msgp"
)

// ErrIntegerOverflow indicates an element that does not fit the requested integer width.
var ErrIntegerOverflow = errors.New("integer overflow")

// NotAnArrayError indicates a root value that is not an array.
type NotAnArrayError struct {
	Actual msgp.Type
}

func (e *NotAnArrayError) Error() string {
	return fmt.Sprintf("invalid root node type: expected array, got %s", e.Actual)
}

// NonIntegerElementError indicates an array element that is not an integer.
type NonIntegerElementError struct {
	Index  int
	Offset int
	Actual msgp.Type
}

func (e *NonIntegerElementError) Error() string {
	return fmt.Sprintf("invalid array element %d at offset %d: expected int or uint, got %s", e.Index, e.Offset, e.Actual)
}

// EncodingError indicates that a set could not be encoded.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type EncodingError struct {
	Count int
	cause error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %d values: %v", e.Count, e.cause)
}

func (e *EncodingError) Unwrap() error { return e.cause }

// UnsortedError indicates that an encoded array is not strictly ascending.
type UnsortedError struct {
	Index int
}

func (e *UnsortedError) Error() string {
	return fmt.Sprintf("array element %d is not greater than its predecessor", e.Index)
}
