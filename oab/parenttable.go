package oab

import (
	"fmt"
	"math"
)

// ParentEntry is a distinct parent name and the absolute offset of its NUL
// terminated bytes in the file.
type ParentEntry struct {
	Name   string
	Offset uint32
}

// ParentTable assigns one offset per distinct parent name, in first seen
// order. Names are compared byte for byte, there is no case folding.
type ParentTable struct {
	base    uint32
	offsets map[string]uint32
	entries []ParentEntry
	block   []byte
}

// NewParentTable returns an empty table whose first entry will be placed at
// the absolute file offset base.
func NewParentTable(base uint32) *ParentTable {
	return &ParentTable{
		base:    base,
		offsets: make(map[string]uint32),
	}
}

// Register returns the offset of parent, appending it to the table if this is
// its first occurrence. An existing entry is never moved or overwritten.
func (t *ParentTable) Register(parent string) (uint32, error) {
	if off, ok := t.offsets[parent]; ok {
		return off, nil
	}

	start := uint64(t.base) + uint64(len(t.block))
	if start+uint64(len(parent))+1 > math.MaxUint32 {
		return 0, fmt.Errorf("%w: parent table at %d", ErrOffsetOverflow, start)
	}
	off := uint32(start)
	t.offsets[parent] = off
	t.entries = append(t.entries, ParentEntry{Name: parent, Offset: off})
	t.block = appendCString(t.block, parent)
	return off, nil
}

// Lookup returns the offset registered for parent.
func (t *ParentTable) Lookup(parent string) (uint32, bool) {
	off, ok := t.offsets[parent]
	return off, ok
}

// Entries returns the registered names in registration order.
func (t *ParentTable) Entries() []ParentEntry {
	return t.entries
}

// Bytes returns the concatenated NUL terminated names.
func (t *ParentTable) Bytes() []byte {
	return t.block
}

// Len returns the size of the table in bytes.
func (t *ParentTable) Len() int {
	return len(t.block)
}

// End returns the absolute offset of the first byte after the table.
func (t *ParentTable) End() uint32 {
	return t.base + uint32(len(t.block))
}
