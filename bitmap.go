package packset

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/packset/internal/conv"
)

// EncodeBitmap encodes the members of bm as a sorted set.
// Members above math.MaxInt64 fail with ErrIntegerOverflow.
func (e *Engine) EncodeBitmap(ctx context.Context, bm *roaring64.Bitmap) ([]byte, error) {
	values := make([]int64, 0, bm.GetCardinality())

	it := bm.Iterator()
	for it.HasNext() {
		v, err := conv.Uint64ToInt64(it.Next())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIntegerOverflow, err)
		}
		values = append(values, v)
	}

	return e.Encode(ctx, values...)
}

// DecodeBitmap decodes an encoded set into a roaring bitmap for set algebra.
// Negative members fail with ErrIntegerOverflow.
func (e *Engine) DecodeBitmap(ctx context.Context, buf []byte) (*roaring64.Bitmap, error) {
	values, err := e.Decode(ctx, buf)
	if err != nil {
		return nil, err
	}

	members := make([]uint64, len(values))
	for i, v := range values {
		u, err := conv.Int64ToUint64(v)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrIntegerOverflow, i, err)
		}
		members[i] = u
	}

	bm := roaring64.New()
	bm.AddMany(members)
	return bm, nil
}

// EncodeBitmap encodes the members of bm using a default Engine.
func EncodeBitmap(bm *roaring64.Bitmap) ([]byte, error) {
	return defaultEngine.EncodeBitmap(context.Background(), bm)
}

// DecodeBitmap decodes an encoded set into a roaring bitmap using a default Engine.
func DecodeBitmap(buf []byte) (*roaring64.Bitmap, error) {
	return defaultEngine.DecodeBitmap(context.Background(), buf)
}
