package encoding

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamFeederGetAndPutback(t *testing.T) {
	f := NewStreamFeeder(bufio.NewReader(bytes.NewReader([]byte{1, 2, 3})))

	b, ok := f.Get()
	require.True(t, ok)
	require.Equal(t, byte(1), b)

	f.Putback(b)
	b, ok = f.Get()
	require.True(t, ok)
	require.Equal(t, byte(1), b)

	b, ok = f.Get()
	require.True(t, ok)
	require.Equal(t, byte(2), b)
}

func TestStreamFeederEnd(t *testing.T) {
	f := NewStreamFeeder(bufio.NewReader(bytes.NewReader(nil)))
	_, ok := f.Get()
	require.False(t, ok)
}

func TestStreamFeederPushPanics(t *testing.T) {
	f := NewStreamFeeder(bufio.NewReader(bytes.NewReader(nil)))
	require.Panics(t, func() { f.Push(1) })
}

func TestBufferedFeederFIFOOrder(t *testing.T) {
	f := NewBufferedFeeder()
	f.PushAll([]byte{1, 2, 3})

	b, ok := f.Get()
	require.True(t, ok)
	require.Equal(t, byte(1), b)
	require.Equal(t, 2, f.Len())
}

func TestBufferedFeederPutbackGoesToFront(t *testing.T) {
	f := NewBufferedFeeder()
	f.PushAll([]byte{2, 3})
	f.Putback(1)

	b, ok := f.Get()
	require.True(t, ok)
	require.Equal(t, byte(1), b)
}

func TestBufferedFeederEmptyIsUnavailableNotEnd(t *testing.T) {
	f := NewBufferedFeeder()
	_, ok := f.Get()
	require.False(t, ok)

	f.Push(9)
	b, ok := f.Get()
	require.True(t, ok)
	require.Equal(t, byte(9), b)
}
