package msgtree

import (
	"fmt"
	"math"

	"github.com/tinylib/msgp/msgp"
)

// Value materializes n and its descendants as plain Go values for text
// rendering.
//
// Integers become int64 or uint64, arrays []any and maps map[string]any with
// every key formatted by fmt.Sprint. NaN and infinite floats become the
// strings "NaN", "+Inf" and "-Inf". Remaining scalars are decoded with
// msgp.ReadIntfBytes.
func (n Node) Value() (any, error) {
	r := n.raw()
	switch r.typ {
	case msgp.IntType:
		return int64(r.bits), nil

	case msgp.UintType:
		return r.bits, nil

	case msgp.ArrayType:
		out := make([]any, r.n)
		for i := range out {
			v, err := n.child(i).Value()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case msgp.MapType:
		out := make(map[string]any, r.n/2)
		for i := 0; i < r.n; i += 2 {
			k, err := n.child(i).Value()
			if err != nil {
				return nil, err
			}
			v, err := n.child(i + 1).Value()
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = v
		}
		return out, nil

	default:
		v, _, err := msgp.ReadIntfBytes(n.t.buf[r.off:])
		if err != nil {
			return nil, &ParseError{Offset: r.off, Reason: err.Error(), cause: err}
		}
		return finite(v), nil
	}
}

func finite(v any) any {
	switch f := v.(type) {
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return fmt.Sprint(f)
		}
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Sprint(f)
		}
	}
	return v
}
