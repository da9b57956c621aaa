package resp

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeToString(t *testing.T, v Value) string {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(bufio.NewWriter(&buf))
	require.NoError(t, w.Encode(v))
	require.NoError(t, w.Flush())
	return buf.String()
}

func TestEncodeSimpleString(t *testing.T) {
	assert.Equal(t, "+OK\r\n", encodeToString(t, OK()))
	assert.Equal(t, "+PONG\r\n", encodeToString(t, Pong()))
}

func TestEncodeError(t *testing.T) {
	assert.Equal(t, "-ERR unknown command 'FOO'\r\n", encodeToString(t, NewError("ERR unknown command 'FOO'")))
}

func TestEncodeInteger(t *testing.T) {
	assert.Equal(t, ":42\r\n", encodeToString(t, NewInteger(42)))
	assert.Equal(t, ":-7\r\n", encodeToString(t, NewInteger(-7)))
}

func TestEncodeBulk(t *testing.T) {
	assert.Equal(t, "$3\r\nfoo\r\n", encodeToString(t, NewBulkString("foo")))
	assert.Equal(t, "$0\r\n\r\n", encodeToString(t, NewBulk(nil)))
}

func TestEncodeNull(t *testing.T) {
	assert.Equal(t, "$-1\r\n", encodeToString(t, NewNull()))
}

func TestEncodeArray(t *testing.T) {
	v := NewArray([]Value{NewBulkString("a"), NewInteger(1), NewNull()})
	assert.Equal(t, "*3\r\n$1\r\na\r\n:1\r\n$-1\r\n", encodeToString(t, v))
}

func TestEncodeNestedArray(t *testing.T) {
	v := NewArray([]Value{NewArray([]Value{NewBulkString("x")})})
	assert.Equal(t, "*1\r\n*1\r\n$1\r\nx\r\n", encodeToString(t, v))
}
