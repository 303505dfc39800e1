package oab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferAppendReturnsStableOffsets(t *testing.T) {
	b := NewBuffer(0)

	off0, err := b.Append([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, uint32(0), off0)

	slot, err := b.Reserve(4)
	require.NoError(t, err)
	require.Equal(t, Slot{Off: 3, Size: 4}, slot)

	off1, err := b.Append([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, uint32(7), off1)
	require.Equal(t, uint32(10), b.Offset())

	// Growth past the initial capacity must not disturb patching at
	// previously issued offsets.
	for i := 0; i < 1000; i++ {
		_, err := b.Append([]byte{0xff})
		require.NoError(t, err)
	}
	b.PatchUint32(slot.Off, 0x04030201)
	require.Equal(t, []byte{1, 2, 3, 1, 2, 3, 4, 'a', 'b', 'c'}, b.Bytes()[:10])
}

func TestBufferPatchSlot(t *testing.T) {
	b := NewBuffer(8)
	_, err := b.Append([]byte{9})
	require.NoError(t, err)
	slot, err := b.Reserve(2)
	require.NoError(t, err)

	b.Patch(slot, []byte{7, 8})
	require.Equal(t, []byte{9, 7, 8}, b.Bytes())
	require.Equal(t, 3, b.Len())

	require.Panics(t, func() { b.Patch(slot, []byte{1}) })
}

func TestBufferPatchBeyondEndPanics(t *testing.T) {
	b := NewBuffer(0)
	_, err := b.Reserve(4)
	require.NoError(t, err)

	require.NotPanics(t, func() { b.PatchUint32(0, 1) })
	require.Panics(t, func() { b.PatchUint32(1, 1) })
}
