package sortedset

import (
	"slices"

	"github.com/hupe1980/packset/internal/conv"
	"github.com/tinylib/msgp/msgp"
)

// Canonicalize returns the ascending, duplicate-free form of values.
// The input slice is not modified.
func Canonicalize(values []int64) []int64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// IsCanonical reports whether values is strictly ascending.
func IsCanonical(values []int64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

// Build canonicalizes values and appends their array encoding to dst.
func Build(dst []byte, values []int64) ([]byte, error) {
	set := values
	if !IsCanonical(set) {
		set = Canonicalize(values)
	}

	n, err := conv.IntToUint32(len(set))
	if err != nil {
		return nil, &EncodingError{Count: len(set), cause: err}
	}

	// Array headers take at most five bytes and int64 values at most nine.
	dst = slices.Grow(dst, 5+9*len(set))
	dst = msgp.AppendArrayHeader(dst, n)
	for _, v := range set {
		dst = msgp.AppendInt64(dst, v)
	}

	return dst, nil
}
