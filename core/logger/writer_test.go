package logger

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestAsyncWriterFanOut(t *testing.T) {
	var a, b bytes.Buffer
	w := newAsyncWriter([]io.Writer{&a, nil, &b}, 16)

	require.NoError(t, w.Write([]byte("one\n")))
	require.NoError(t, w.Write([]byte("two\n")))
	require.NoError(t, w.Flush())

	assert.Equal(t, "one\ntwo\n", a.String())
	assert.Equal(t, "one\ntwo\n", b.String())
	require.NoError(t, w.Close())
}

func TestAsyncWriterWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w := newAsyncWriter([]io.Writer{&buf}, 0)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.NoError(t, w.Write([]byte("late\n")))
	require.NoError(t, w.Flush())
	assert.Equal(t, "late\n", buf.String())
}

func TestAsyncWriterStickyError(t *testing.T) {
	w := newAsyncWriter([]io.Writer{failingWriter{}}, 0)
	require.NoError(t, w.Write([]byte("x\n")))
	require.Error(t, w.Close())
	assert.EqualError(t, w.Write([]byte("y\n")), "disk full")
}
