package oab

// Chain links variable length records appended to a Buffer into an
// insertion-ordered doubly linked list addressed by absolute offset.
//
// The backward link of a record is known when it is encoded (Prev). Its
// forward link is only known once the following record has been placed, so
// the chain keeps the offset of the last record and writes the new offset
// into that record's forward fields on the next Append. Close terminates the
// list by writing 0 into the final record's forward fields.
type Chain struct {
	buf *Buffer

	// record relative positions of the 4 byte forward link fields
	forward []uint32

	root   uint32
	last   uint32
	count  uint32
	closed bool
}

// NewChain starts an empty chain on buf. forward lists the record relative
// positions of the fields that hold the offset of the next record.
func NewChain(buf *Buffer, forward ...uint32) *Chain {
	return &Chain{buf: buf, forward: forward}
}

// Prev returns the offset of the most recently appended record, or 0 when the
// chain is empty. It is the oPrev value for the next record.
func (c *Chain) Prev() uint32 {
	if c.count == 0 {
		return 0
	}
	return c.last
}

// Append writes rec, whose forward fields must still be zero, and links the
// previous record to it. It returns the offset of rec.
func (c *Chain) Append(rec []byte) (uint32, error) {
	if c.closed {
		panic("oab: append to closed chain")
	}
	off, err := c.buf.Append(rec)
	if err != nil {
		return 0, err
	}
	if c.count == 0 {
		c.root = off
	} else {
		c.link(c.last, off)
	}
	c.last = off
	c.count++
	return off, nil
}

// Close writes 0 into the forward fields of the last record. No records may
// be appended afterwards.
func (c *Chain) Close() {
	if c.count > 0 {
		c.link(c.last, 0)
	}
	c.closed = true
}

// Root returns the offset of the first record, 0 for an empty chain.
func (c *Chain) Root() uint32 {
	return c.root
}

// Len returns the number of records appended.
func (c *Chain) Len() uint32 {
	return c.count
}

func (c *Chain) link(recOff uint32, next uint32) {
	for _, f := range c.forward {
		c.buf.PatchUint32(recOff+f, next)
	}
}
