package sortedset

import (
	"fmt"

	"github.com/hupe1980/packset/internal/conv"
	"github.com/hupe1980/packset/internal/msgtree"
)

// Mode selects the containment semantics of a query.
type Mode uint8

const (
	// MatchAll reports whether every query value is present.
	MatchAll Mode = iota
	// MatchAny reports whether at least one query value is present.
	MatchAny
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case MatchAll:
		return "all"
	case MatchAny:
		return "any"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Options configures queries and decoding.
type Options struct {
	// MaxDepth is forwarded to msgtree.Parse.
	MaxDepth int
	// VerifySorted adds a full ordering check before the merge walk.
	VerifySorted bool
}

func (o Options) parse(buf []byte) (*msgtree.Tree, error) {
	return msgtree.Parse(buf, func(po *msgtree.Options) {
		po.MaxDepth = o.MaxDepth
	})
}

// ContainsAll reports whether the encoded set in buf contains every value of query.
// An empty query is vacuously contained.
func ContainsAll(buf []byte, query []int64, opts Options) (bool, error) {
	return Query(buf, MatchAll, Canonicalize(query), opts)
}

// ContainsAny reports whether the encoded set in buf contains at least one value of query.
// An empty query never matches.
func ContainsAny(buf []byte, query []int64, opts Options) (bool, error) {
	return Query(buf, MatchAny, Canonicalize(query), opts)
}

// Query runs a containment query. The query must already be canonical.
func Query(buf []byte, mode Mode, query []int64, opts Options) (bool, error) {
	t, err := opts.parse(buf)
	if err != nil {
		return false, err
	}
	defer t.Release()

	arr, err := arrayRoot(t)
	if err != nil {
		return false, err
	}

	if opts.VerifySorted {
		if err := VerifySorted(arr); err != nil {
			return false, err
		}
	}

	switch mode {
	case MatchAll:
		return containsAll(arr, query)
	case MatchAny:
		return containsAny(arr, query)
	default:
		return false, fmt.Errorf("unknown query mode %s", mode)
	}
}

// Decode returns the elements of the encoded set in buf.
func Decode(buf []byte, opts Options) ([]int64, error) {
	t, err := opts.parse(buf)
	if err != nil {
		return nil, err
	}
	defer t.Release()

	arr, err := arrayRoot(t)
	if err != nil {
		return nil, err
	}

	if opts.VerifySorted {
		if err := VerifySorted(arr); err != nil {
			return nil, err
		}
	}

	out := make([]int64, arr.Len())
	for i := range out {
		e, err := element(arr, i)
		if err != nil {
			return nil, err
		}
		if e.Kind() == msgtree.KindUint {
			v, err := conv.Uint64ToInt64(e.Uint())
			if err != nil {
				return nil, fmt.Errorf("%w: element %d: %w", ErrIntegerOverflow, i, err)
			}
			out[i] = v
			continue
		}
		out[i] = e.Int()
	}

	return out, nil
}

// VerifySorted checks that every element of arr is an integer and strictly
// greater than its predecessor.
func VerifySorted(arr msgtree.Node) error {
	var prev msgtree.Node
	for i := 0; i < arr.Len(); i++ {
		e, err := element(arr, i)
		if err != nil {
			return err
		}
		if i > 0 && msgtree.Compare(e, prev) <= 0 {
			return &UnsortedError{Index: i}
		}
		prev = e
	}
	return nil
}

func arrayRoot(t *msgtree.Tree) (msgtree.Node, error) {
	root := t.Root()
	if root.Kind() != msgtree.KindArray {
		return msgtree.Node{}, &NotAnArrayError{Actual: root.Type()}
	}
	return root, nil
}

func element(arr msgtree.Node, i int) (msgtree.Node, error) {
	e := arr.At(i)
	if !e.Kind().IsInteger() {
		return msgtree.Node{}, &NonIntegerElementError{Index: i, Offset: e.Offset(), Actual: e.Type()}
	}
	return e, nil
}

// containsAll merge-walks arr and query. Both are ascending, so the walk
// stops as soon as an element overshoots the current target.
func containsAll(arr msgtree.Node, query []int64) (bool, error) {
	if len(query) == 0 {
		return true, nil
	}

	search := 0
	for i := 0; i < arr.Len(); i++ {
		e, err := element(arr, i)
		if err != nil {
			return false, err
		}

		c := e.Compare(query[search])
		if c > 0 {
			return false, nil
		}
		if c == 0 {
			search++
			if search == len(query) {
				return true, nil
			}
		}
	}

	return false, nil
}

// containsAny merge-walks arr and query, skipping targets the array has
// already passed. Running out of targets ends the walk.
func containsAny(arr msgtree.Node, query []int64) (bool, error) {
	if len(query) == 0 {
		return false, nil
	}

	search := 0
	for i := 0; i < arr.Len(); i++ {
		e, err := element(arr, i)
		if err != nil {
			return false, err
		}

		for e.Compare(query[search]) > 0 {
			search++
			if search == len(query) {
				return false, nil
			}
		}

		if e.Compare(query[search]) == 0 {
			return true, nil
		}
	}

	return false, nil
}
