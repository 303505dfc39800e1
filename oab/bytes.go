package oab

import (
	"bytes"
	"encoding/binary"
)

func readU32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func writeU32LE(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }

// appendCString appends s and a single NUL terminator to dst.
func appendCString(dst []byte, s string) []byte {
	dst = append(dst, s...)
	return append(dst, 0)
}

// readCString returns the NUL terminated string starting at off and the
// number of bytes it occupies, including the terminator.
func readCString(data []byte, off uint32) (string, uint32, error) {
	if uint64(off) >= uint64(len(data)) {
		return "", 0, ErrTruncated
	}
	end := bytes.IndexByte(data[off:], 0)
	if end < 0 {
		return "", 0, ErrTruncated
	}
	return string(data[off : off+uint32(end)]), uint32(end) + 1, nil
}
