package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestJSONRendering(t *testing.T) {
	v := map[string]any{"set": []any{int64(1), uint64(2)}}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		assert.JSONEq(t, `{"set":[1,2]}`, string(MustMarshal(c, v)), c.Name())
	}
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
	assert.NotPanics(t, func() { MustMarshal(nil, 1) })
}
