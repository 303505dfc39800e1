package oab

import (
	"fmt"
	"math"
)

// Slot identifies bytes reserved in a Buffer for later patching.
type Slot struct {
	Off  uint32
	Size uint32
}

// Buffer is an append-only byte buffer addressed by absolute uint32 offsets.
//
// Bytes are only ever appended, so an offset returned by Append or Reserve
// stays valid for the life of the buffer. Patch methods overwrite bytes in
// place and never change the length.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty buffer with capacity for sizeHint bytes.
func NewBuffer(sizeHint int) *Buffer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Buffer{data: make([]byte, 0, sizeHint)}
}

// Offset returns the offset the next appended byte will occupy.
func (b *Buffer) Offset() uint32 {
	return uint32(len(b.data))
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the buffer contents. The caller must not append to the
// returned slice while the buffer is still in use.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Append writes p at the end of the buffer and returns the offset of its
// first byte.
func (b *Buffer) Append(p []byte) (uint32, error) {
	if err := b.checkGrow(len(p)); err != nil {
		return 0, err
	}
	off := uint32(len(b.data))
	b.data = append(b.data, p...)
	return off, nil
}

// Reserve appends n zero bytes and returns the slot covering them.
func (b *Buffer) Reserve(n uint32) (Slot, error) {
	if err := b.checkGrow(int(n)); err != nil {
		return Slot{}, err
	}
	off := uint32(len(b.data))
	b.data = append(b.data, make([]byte, n)...)
	return Slot{Off: off, Size: n}, nil
}

// PatchUint32 overwrites the 4 bytes at off with v (little-endian).
//
// off must address bytes already written; it is a programming error
// otherwise.
func (b *Buffer) PatchUint32(off uint32, v uint32) {
	if uint64(off)+4 > uint64(len(b.data)) {
		panic(fmt.Sprintf("oab: patch at %d beyond buffer length %d", off, len(b.data)))
	}
	writeU32LE(b.data[off:off+4], v)
}

// Patch overwrites the bytes of slot with p. p must be exactly slot.Size
// bytes long.
func (b *Buffer) Patch(slot Slot, p []byte) {
	if uint32(len(p)) != slot.Size {
		panic(fmt.Sprintf("oab: patch of %d bytes into slot of %d", len(p), slot.Size))
	}
	if uint64(slot.Off)+uint64(slot.Size) > uint64(len(b.data)) {
		panic(fmt.Sprintf("oab: slot at %d beyond buffer length %d", slot.Off, len(b.data)))
	}
	copy(b.data[slot.Off:slot.Off+slot.Size], p)
}

func (b *Buffer) checkGrow(n int) error {
	if uint64(len(b.data))+uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: %d + %d bytes", ErrOffsetOverflow, len(b.data), n)
	}
	return nil
}
