// Package msgtree parses a MessagePack buffer into a read-only tree of typed nodes.
//
// Parsing is eager: the whole buffer is validated before Parse returns, so a
// caller never sees a node from a malformed buffer. Structural faults
// (truncation, unknown prefix bytes, container sizes larger than the remaining
// input, excessive nesting, trailing bytes) are reported as *ParseError.
//
// The tree borrows the input buffer and keeps its node index in pooled
// storage. Every successful Parse must be paired with exactly one Release:
//
//	t, err := msgtree.Parse(buf)
//	if err != nil {
//	    return err
//	}
//	defer t.Release()
//
//	root := t.Root()
//	if root.Kind() == msgtree.KindArray {
//	    for i := 0; i < root.Len(); i++ {
//	        _ = root.At(i)
//	    }
//	}
//
// Nodes must not be used after Release. A Tree is not safe for concurrent use.
package msgtree
