package msgtree

import (
	"cmp"
	"fmt"
	"math"

	"github.com/tinylib/msgp/msgp"
)

// Kind is the coarse node classification used by set queries.
type Kind uint8

const (
	// KindOther covers every type that is neither an integer nor an array.
	KindOther Kind = iota
	// KindInt is a signed integer.
	KindInt
	// KindUint is an unsigned integer.
	KindUint
	// KindArray is an array.
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindArray:
		return "array"
	default:
		return "other"
	}
}

// IsInteger reports whether k is KindInt or KindUint.
func (k Kind) IsInteger() bool { return k == KindInt || k == KindUint }

// Node is a handle to one value of a parsed Tree.
type Node struct {
	t *Tree
	i int
}

func (n Node) raw() *node { return &n.t.s.nodes[n.i] }

// Type returns the MessagePack type of the node.
func (n Node) Type() msgp.Type { return n.raw().typ }

// Kind returns the coarse classification of the node.
func (n Node) Kind() Kind {
	switch n.raw().typ {
	case msgp.IntType:
		return KindInt
	case msgp.UintType:
		return KindUint
	case msgp.ArrayType:
		return KindArray
	default:
		return KindOther
	}
}

// Offset returns the byte offset of the node within the parsed buffer.
func (n Node) Offset() int { return n.raw().off }

// Len returns the element count of an array, the pair count of a map and
// zero for any other node.
func (n Node) Len() int {
	r := n.raw()
	if r.typ == msgp.MapType {
		return r.n / 2
	}
	return r.n
}

// At returns the i-th element of an array node.
// It panics if n is not an array or i is out of range.
func (n Node) At(i int) Node {
	r := n.raw()
	if r.typ != msgp.ArrayType {
		panic(fmt.Sprintf("msgtree: At called on %s node", r.typ))
	}
	if i < 0 || i >= r.n {
		panic(fmt.Sprintf("msgtree: index %d out of range [0:%d]", i, r.n))
	}
	return n.child(i)
}

// child returns the i-th child of an array or map node. Map children
// alternate key and value.
func (n Node) child(i int) Node {
	return Node{t: n.t, i: n.t.s.children[n.raw().first+i]}
}

// Int returns the value of an integer node. Unsigned values above
// math.MaxInt64 saturate; use Compare for exact ordering.
// It panics if n is not an integer.
func (n Node) Int() int64 {
	r := n.raw()
	switch r.typ {
	case msgp.IntType:
		return int64(r.bits)
	case msgp.UintType:
		if r.bits > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(r.bits)
	default:
		panic(fmt.Sprintf("msgtree: Int called on %s node", r.typ))
	}
}

// Uint returns the raw unsigned value of a KindUint node.
// It panics if n is not KindUint.
func (n Node) Uint() uint64 {
	r := n.raw()
	if r.typ != msgp.UintType {
		panic(fmt.Sprintf("msgtree: Uint called on %s node", r.typ))
	}
	return r.bits
}

// exceedsInt64 reports whether n is an unsigned value above math.MaxInt64.
func (n Node) exceedsInt64() bool {
	r := n.raw()
	return r.typ == msgp.UintType && r.bits > math.MaxInt64
}

// Compare orders the integer node n against v, returning -1, 0 or +1.
// It panics if n is not an integer.
func (n Node) Compare(v int64) int {
	if n.exceedsInt64() {
		return 1
	}
	return cmp.Compare(n.Int(), v)
}

// Compare orders two integer nodes, returning -1, 0 or +1.
// It panics if either node is not an integer.
func Compare(a, b Node) int {
	ab, bb := a.exceedsInt64(), b.exceedsInt64()
	switch {
	case ab && bb:
		return cmp.Compare(a.Uint(), b.Uint())
	case ab:
		return 1
	case bb:
		return -1
	default:
		return cmp.Compare(a.Int(), b.Int())
	}
}
