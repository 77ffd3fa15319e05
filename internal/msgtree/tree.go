package msgtree

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tinylib/msgp/msgp"
)

const (
	// DefaultMaxDepth is the default container nesting limit accepted by Parse.
	DefaultMaxDepth = 512

	// maxPooledNodes caps the node capacity kept in the pool after Release.
	maxPooledNodes = 1 << 16
)

// ParseError reports a structural fault in a MessagePack buffer.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ParseError struct {
	Offset int
	Reason string
	cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("msgtree: parse error at offset %d: %s", e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.cause }

// ErrEmptyBuffer is the cause of a ParseError for a zero-length input.
var ErrEmptyBuffer = errors.New("empty buffer")

// Options configures Parse.
type Options struct {
	// MaxDepth bounds container nesting. Values <= 0 select DefaultMaxDepth.
	MaxDepth int
}

type node struct {
	typ   msgp.Type
	bits  uint64
	off   int
	first int
	n     int
}

type storage struct {
	nodes    []node
	children []int
}

var storagePool = sync.Pool{
	New: func() any {
		return &storage{
			nodes:    make([]node, 0, 64),
			children: make([]int, 0, 64),
		}
	},
}

// Tree is a parsed, read-only view over a MessagePack buffer.
type Tree struct {
	buf []byte
	s   *storage
}

// Parse validates buf and builds its node index.
//
// On error no Tree is returned and nothing needs to be released.
func Parse(buf []byte, optFns ...func(o *Options)) (*Tree, error) {
	opts := Options{MaxDepth: DefaultMaxDepth}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	if len(buf) == 0 {
		return nil, &ParseError{Offset: 0, Reason: ErrEmptyBuffer.Error(), cause: ErrEmptyBuffer}
	}

	t := &Tree{buf: buf, s: storagePool.Get().(*storage)}
	p := parser{t: t, maxDepth: opts.MaxDepth}

	_, rest, err := p.parse(buf, 0)
	if err != nil {
		t.Release()
		return nil, err
	}
	if len(rest) > 0 {
		off := len(buf) - len(rest)
		t.Release()
		return nil, &ParseError{Offset: off, Reason: fmt.Sprintf("%d trailing bytes after root value", len(rest))}
	}

	return t, nil
}

// Release returns the tree's storage to the pool.
// It is safe to call more than once; only the first call has an effect.
func (t *Tree) Release() {
	if t == nil || t.s == nil {
		return
	}
	s := t.s
	t.s = nil
	t.buf = nil

	if cap(s.nodes) > maxPooledNodes {
		return
	}
	s.nodes = s.nodes[:0]
	s.children = s.children[:0]
	storagePool.Put(s)
}

// Released reports whether Release has been called.
func (t *Tree) Released() bool { return t.s == nil }

// Root returns the top-level node.
func (t *Tree) Root() Node { return Node{t: t, i: 0} }

// Size returns the number of parsed nodes, including nested ones.
func (t *Tree) Size() int { return len(t.s.nodes) }

type parser struct {
	t        *Tree
	maxDepth int
}

func (p *parser) offset(b []byte) int { return len(p.t.buf) - len(b) }

func (p *parser) fail(off int, err error) error {
	return &ParseError{Offset: off, Reason: err.Error(), cause: err}
}

// parse reads one value from b, appends it (and its descendants) to the
// node index and returns its node index and the remaining input.
func (p *parser) parse(b []byte, depth int) (int, []byte, error) {
	off := p.offset(b)
	if depth > p.maxDepth {
		return 0, nil, &ParseError{Offset: off, Reason: fmt.Sprintf("nesting exceeds max depth %d", p.maxDepth)}
	}
	if len(b) == 0 {
		return 0, nil, p.fail(off, msgp.ErrShortBytes)
	}

	s := p.t.s
	idx := len(s.nodes)
	typ := msgp.NextType(b)
	s.nodes = append(s.nodes, node{typ: typ, off: off})

	switch typ {
	case msgp.IntType:
		v, rest, err := msgp.ReadInt64Bytes(b)
		if err != nil {
			return 0, nil, p.fail(off, err)
		}
		s.nodes[idx].bits = uint64(v)
		return idx, rest, nil

	case msgp.UintType:
		v, rest, err := msgp.ReadUint64Bytes(b)
		if err != nil {
			return 0, nil, p.fail(off, err)
		}
		s.nodes[idx].bits = v
		return idx, rest, nil

	case msgp.ArrayType:
		sz, rest, err := msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return 0, nil, p.fail(off, err)
		}
		// Every element occupies at least one byte.
		if uint64(sz) > uint64(len(rest)) {
			return 0, nil, &ParseError{
				Offset: off,
				Reason: fmt.Sprintf("array of %d elements exceeds %d remaining bytes", sz, len(rest)),
				cause:  msgp.ErrShortBytes,
			}
		}
		return p.container(idx, int(sz), rest, depth)

	case msgp.MapType:
		sz, rest, err := msgp.ReadMapHeaderBytes(b)
		if err != nil {
			return 0, nil, p.fail(off, err)
		}
		if 2*uint64(sz) > uint64(len(rest)) {
			return 0, nil, &ParseError{
				Offset: off,
				Reason: fmt.Sprintf("map of %d pairs exceeds %d remaining bytes", sz, len(rest)),
				cause:  msgp.ErrShortBytes,
			}
		}
		return p.container(idx, 2*int(sz), rest, depth)

	case msgp.InvalidType:
		return 0, nil, &ParseError{Offset: off, Reason: fmt.Sprintf("invalid type prefix 0x%02x", b[0])}

	default:
		rest, err := msgp.Skip(b)
		if err != nil {
			return 0, nil, p.fail(off, err)
		}
		return idx, rest, nil
	}
}

// container parses n child values of the node at idx. Child node indexes are
// stored contiguously in the children slice so At is a single lookup.
func (p *parser) container(idx, n int, b []byte, depth int) (int, []byte, error) {
	s := p.t.s
	first := len(s.children)
	for range n {
		s.children = append(s.children, 0)
	}
	s.nodes[idx].first = first
	s.nodes[idx].n = n

	for i := range n {
		child, rest, err := p.parse(b, depth+1)
		if err != nil {
			return 0, nil, err
		}
		s.children[first+i] = child
		b = rest
	}

	return idx, b, nil
}
