package main

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/hupe1980/packset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return strings.TrimSpace(stdout.String()), stderr.String(), err
}

func encoded(t *testing.T, values ...int64) string {
	t.Helper()
	buf, err := packset.Encode(values...)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(buf)
}

func TestEncodeDecode(t *testing.T) {
	out, _, err := run(t, "encode", "3", "1", "3", "2")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x93, 0x01, 0x02, 0x03}), out)

	out, _, err = run(t, "decode", out)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", out)

	out, _, err = run(t, "encode", "--", "-5", "7")
	require.NoError(t, err)
	assert.Equal(t, encoded(t, -5, 7), out)

	out, _, err = run(t, "encode")
	require.NoError(t, err)
	assert.Equal(t, "kA==", out)
}

func TestContains(t *testing.T) {
	set := encoded(t, 1, 3, 5, 7, 9)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"contains-all", set, "9", "1", "5"}, "true"},
		{[]string{"contains-all", set, "0", "1"}, "false"},
		{[]string{"contains-any", set, "2", "4", "7"}, "true"},
		{[]string{"contains-any", set, "-1", "10"}, "false"},
		{[]string{"--verify-sorted", "contains-any", set, "3"}, "true"},
	}

	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			out, _, err := run(t, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestContains_Errors(t *testing.T) {
	set := encoded(t, 1)

	_, _, err := run(t, "contains-all", set)
	var ae *packset.ArityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 1, ae.Got)

	_, _, err = run(t, "contains-any", set, "x")
	var ge *packset.ArgumentError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 1, ge.Index)

	_, _, err = run(t, "contains-all", "%%%", "1")
	assert.ErrorContains(t, err, "invalid base64")

	_, _, err = run(t, "contains-all", base64.StdEncoding.EncodeToString([]byte{0x05}), "5")
	var nae *packset.NotAnArrayError
	assert.ErrorAs(t, err, &nae)
}

func TestDump(t *testing.T) {
	out, _, err := run(t, "dump", encoded(t, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", out)

	out, _, err = run(t, "--dump-codec", "json", "dump", encoded(t))
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	_, _, err = run(t, "--dump-codec", "msgpack", "dump", encoded(t))
	assert.ErrorContains(t, err, "invalid --dump-codec")

	_, _, err = run(t, "dump", base64.StdEncoding.EncodeToString([]byte{0xc1}))
	var pe *packset.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestSQL(t *testing.T) {
	out, _, err := run(t, "sql", "SELECT mpack_contains(mpack_array(1, 2, 3), 2, 3), mpack_dbg_list(mpack_array(2, 1))")
	require.NoError(t, err)
	assert.Equal(t, "1\t[1,2]", out)

	out, _, err = run(t, "sql", "SELECT mpack_array(1), NULL")
	require.NoError(t, err)
	assert.Equal(t, "kQE=\tNULL", out)

	_, _, err = run(t, "sql", "SELECT mpack_contains(mpack_array(1))")
	assert.ErrorContains(t, err, "must have at least 2 arguments")
}

func TestLogging(t *testing.T) {
	_, stderr, err := run(t, "--log-level", "debug", "--log-format", "json", "encode", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"count":1`)

	_, _, err = run(t, "--log-level", "loud", "encode", "1")
	assert.ErrorContains(t, err, "invalid --log-level")

	_, _, err = run(t, "--log-format", "xml", "encode", "1")
	assert.ErrorContains(t, err, "invalid --log-format")
}
