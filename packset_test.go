package packset

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/hupe1980/packset/codec"
	"github.com/hupe1980/packset/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"
)

func mustEncode(t *testing.T, values ...int64) []byte {
	t.Helper()
	buf, err := Encode(values...)
	require.NoError(t, err)
	return buf
}

func TestEncodeDecode(t *testing.T) {
	t.Run("duplicate collapse", func(t *testing.T) {
		got, err := Decode(mustEncode(t, 3, 1, 3, 2, 1))
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, got)
	})

	t.Run("empty", func(t *testing.T) {
		buf := mustEncode(t)
		assert.Equal(t, []byte{0x90}, buf)

		got, err := Decode(buf)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("fixed point", func(t *testing.T) {
		rng := testutil.NewRNG(99)
		for range 25 {
			values := rng.ZipfInts(rng.Intn(64), 16, 1.2)
			first := mustEncode(t, values...)

			decoded, err := Decode(first)
			require.NoError(t, err)
			assert.Equal(t, testutil.Canonical(values), decoded)
			assert.Equal(t, first, mustEncode(t, decoded...))
		}
	})

	t.Run("extremes", func(t *testing.T) {
		got, err := Decode(mustEncode(t, math.MaxInt64, math.MinInt64, 0))
		require.NoError(t, err)
		assert.Equal(t, []int64{math.MinInt64, 0, math.MaxInt64}, got)
	})
}

func TestContains(t *testing.T) {
	empty := mustEncode(t)
	five := mustEncode(t, 5)

	all, err := ContainsAll(empty, 1)
	require.NoError(t, err)
	assert.False(t, all)

	anyOf, err := ContainsAny(empty, 1)
	require.NoError(t, err)
	assert.False(t, anyOf)

	all, err = ContainsAll(five, 5)
	require.NoError(t, err)
	assert.True(t, all)

	all, err = ContainsAll(five, 5, 6)
	require.NoError(t, err)
	assert.False(t, all)

	all, err = ContainsAll(five)
	require.NoError(t, err)
	assert.True(t, all, "empty query is vacuously contained")

	anyOf, err = ContainsAny(five)
	require.NoError(t, err)
	assert.False(t, anyOf, "empty query never matches")
}

func TestContains_MatchesOracle(t *testing.T) {
	rng := testutil.NewRNG(2024)
	e := New(WithVerifySorted(true))
	ctx := context.Background()

	for range 200 {
		set := rng.Ints(rng.Intn(50), -1000, 1000)
		query := rng.Sample(set, 1+rng.Intn(6), 0.3, -1100, 1100)
		buf, err := e.Encode(ctx, set...)
		require.NoError(t, err)

		all, err := e.ContainsAll(ctx, buf, query...)
		require.NoError(t, err)
		assert.Equal(t, testutil.ContainsAll(set, query), all)

		anyOf, err := e.ContainsAny(ctx, buf, query...)
		require.NoError(t, err)
		assert.Equal(t, testutil.ContainsAny(set, query), anyOf)
	}
}

func TestContains_Errors(t *testing.T) {
	t.Run("malformed buffer", func(t *testing.T) {
		for _, buf := range [][]byte{nil, {0x93, 0x01}, {0xc1}, []byte("not msgpack at all")} {
			_, err := ContainsAll(buf, 1)
			var pe *ParseError
			require.ErrorAs(t, err, &pe, "buf=%x", buf)
			assert.NotEmpty(t, pe.Reason)
		}
	})

	t.Run("non-array root", func(t *testing.T) {
		buf := msgp.AppendInt64(nil, 5)

		_, err := ContainsAll(buf, 5)
		var nae *NotAnArrayError
		require.ErrorAs(t, err, &nae)
		assert.Equal(t, "int", nae.Actual)

		_, err = ContainsAny(buf, 5)
		require.ErrorAs(t, err, &nae)

		_, err = Decode(buf)
		require.ErrorAs(t, err, &nae)
	})

	t.Run("non-integer element", func(t *testing.T) {
		buf := msgp.AppendArrayHeader(nil, 2)
		buf = msgp.AppendInt64(buf, 1)
		buf = msgp.AppendFloat64(buf, 2.5)

		_, err := ContainsAny(buf, 3)
		var nie *NonIntegerElementError
		require.ErrorAs(t, err, &nie)
		assert.Equal(t, 1, nie.Index)
		assert.Equal(t, 2, nie.Offset)
		assert.Equal(t, "float64", nie.Actual)
	})

	t.Run("unsorted with verification", func(t *testing.T) {
		buf := msgp.AppendArrayHeader(nil, 2)
		buf = msgp.AppendInt64(buf, 2)
		buf = msgp.AppendInt64(buf, 1)

		_, err := New(WithVerifySorted(true)).ContainsAll(context.Background(), buf, 1)
		var ue *UnsortedError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, 1, ue.Index)

		// Without verification the result is merely unspecified.
		_, err = ContainsAll(buf, 1)
		assert.NoError(t, err)
	})

	t.Run("unsigned overflow on decode", func(t *testing.T) {
		buf := msgp.AppendArrayHeader(nil, 1)
		buf = msgp.AppendUint64(buf, math.MaxUint64)

		_, err := Decode(buf)
		assert.ErrorIs(t, err, ErrIntegerOverflow)

		found, err := ContainsAny(buf, math.MaxInt64)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("max depth", func(t *testing.T) {
		buf := msgp.AppendArrayHeader(nil, 1)
		buf = msgp.AppendArrayHeader(buf, 1)
		buf = msgp.AppendInt64(buf, 1)

		_, err := New(WithMaxDepth(1)).Dump(context.Background(), buf)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)

		_, err = New(WithMaxDepth(0)).Dump(context.Background(), buf)
		assert.NoError(t, err)
	})
}

func TestDump(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		text, err := Dump(mustEncode(t, 2, 1))
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, text)
	})

	t.Run("arbitrary document", func(t *testing.T) {
		buf := msgp.AppendMapHeader(nil, 2)
		buf = msgp.AppendString(buf, "name")
		buf = msgp.AppendString(buf, "tags")
		buf = msgp.AppendString(buf, "ids")
		buf = msgp.AppendArrayHeader(buf, 2)
		buf = msgp.AppendUint64(buf, 300)
		buf = msgp.AppendNil(buf)

		text, err := New(WithDumpCodec(codec.JSON{})).Dump(context.Background(), buf)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"tags","ids":[300,null]}`, text)
	})

	t.Run("integer map keys", func(t *testing.T) {
		buf := msgp.AppendMapHeader(nil, 2)
		buf = msgp.AppendInt64(buf, 1)
		buf = msgp.AppendInt64(buf, 2)
		buf = msgp.AppendUint64(buf, 3)
		buf = msgp.AppendArrayHeader(buf, 0)

		text, err := Dump(buf)
		require.NoError(t, err)
		assert.JSONEq(t, `{"1":2,"3":[]}`, text)
	})

	t.Run("non-finite floats", func(t *testing.T) {
		buf := msgp.AppendArrayHeader(nil, 3)
		buf = msgp.AppendFloat64(buf, math.NaN())
		buf = msgp.AppendFloat64(buf, math.Inf(1))
		buf = msgp.AppendFloat32(buf, 0.5)

		for _, c := range []codec.Codec{codec.GoJSON{}, codec.JSON{}} {
			text, err := New(WithDumpCodec(c)).Dump(context.Background(), buf)
			require.NoError(t, err, c.Name())
			assert.JSONEq(t, `["NaN","+Inf",0.5]`, text, c.Name())
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Dump([]byte{0x92, 0x01})
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	})
}

func TestEngine_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(WithLogger(logger))
	ctx := context.Background()

	set, err := e.Encode(ctx, 1, 2)
	require.NoError(t, err)
	_, err = e.ContainsAny(ctx, set, 2)
	require.NoError(t, err)
	_, err = e.ContainsAll(ctx, []byte{0xc1}, 2)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"encode completed"`)
	assert.Contains(t, out, `"msg":"query completed"`)
	assert.Contains(t, out, `"mode":"any"`)
	assert.Contains(t, out, `"msg":"query failed"`)
	assert.Contains(t, out, `"mode":"all"`)
}

func TestLoggerConstructors(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer
	ctx := context.Background()

	NewJSONLogger(&jsonBuf, slog.LevelInfo).LogFilter(ctx, MatchAny, 3, 1, nil)
	assert.Contains(t, jsonBuf.String(), `"mode":"any"`)
	assert.Contains(t, jsonBuf.String(), `"matched":1`)

	NewTextLogger(&textBuf, slog.LevelInfo).LogQuery(ctx, MatchAll, 2, true, nil)
	assert.Empty(t, textBuf.String(), "debug records are below the level")

	NewTextLogger(&textBuf, slog.LevelDebug).LogQuery(ctx, MatchAll, 2, true, nil)
	assert.Contains(t, textBuf.String(), "mode=all")
}

func TestEngine_Metrics(t *testing.T) {
	m := &BasicMetricsCollector{}
	e := New(WithMetricsCollector(m))
	ctx := context.Background()

	set, err := e.Encode(ctx, 1, 2, 2)
	require.NoError(t, err)
	_, _ = e.ContainsAll(ctx, set, 1)
	_, _ = e.ContainsAny(ctx, set, 9)
	_, _ = e.ContainsAny(ctx, nil, 9)
	_, _ = e.Decode(ctx, set)
	_, _ = e.Dump(ctx, set)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.EncodeCount)
	assert.Equal(t, int64(3), stats.EncodeValues)
	assert.Equal(t, int64(1), stats.QueryAllCount)
	assert.Equal(t, int64(2), stats.QueryAnyCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(1), stats.DecodeCount)
	assert.Equal(t, int64(1), stats.DumpCount)
}

func TestOptions_NilFallbacks(t *testing.T) {
	e := New(WithLogger(nil), WithMetricsCollector(nil), WithDumpCodec(nil), WithConcurrency(-1))

	assert.NotNil(t, e.opts.logger)
	assert.Equal(t, NoopMetricsCollector{}, e.opts.metricsCollector)
	assert.Equal(t, codec.Default, e.opts.dumpCodec)
	assert.Positive(t, e.opts.concurrency)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, translateError(plain))
}

func TestBoundaryErrors(t *testing.T) {
	ae := &ArityError{Func: "mpack_contains", Min: 2, Got: 1}
	assert.Equal(t, "mpack_contains: must have at least 2 arguments, got 1", ae.Error())

	ge := &ArgumentError{Func: "mpack_array", Index: 0, Expected: "INTEGER", Actual: "TEXT"}
	assert.Equal(t, "mpack_array: argument 1 must be INTEGER, got TEXT", ge.Error())
}
