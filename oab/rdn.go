package oab

import "fmt"

// EncodeRDNHeader returns the 16 byte RDN file header. The oRoot field is
// left zero for the caller to patch once the parent table size is known.
func EncodeRDNHeader(totalRecords uint32) []byte {
	hdr := make([]byte, RDNHeaderBytes)
	writeU32LE(hdr[RDNHeaderVersionFirstByte:RDNHeaderVersionFirstByte+4], RDNVersion)
	writeU32LE(hdr[RDNHeaderTotRecsFirstByte:RDNHeaderTotRecsFirstByte+4], totalRecords)
	return hdr
}

// EncodeRDNRecord returns an RDN record: the 24 byte prefix followed by key
// and a NUL. oNext (and its rLT mirror) are left zero for the chain to
// backpatch.
//
// parentOffset is only checked against the header: the parent table starts
// at RDNHeaderBytes, so a smaller offset is unresolved. Callers resolve it
// through ParentTable.Lookup. ReadRDNChain rejects offsets that are not
// table entries.
func EncodeRDNRecord(key string, parentOffset uint32, oPrev uint32, iBrowse uint32) ([]byte, error) {
	if parentOffset < RDNHeaderBytes {
		return nil, fmt.Errorf("%w: key %q, offset %d", ErrUnresolvedParentDN, key, parentOffset)
	}

	rec := make([]byte, RDNRecordPrefixBytes, RDNRecordPrefixBytes+len(key)+1)
	writeU32LE(rec[RDNRecordLTFirstByte:RDNRecordLTFirstByte+4], oPrev)
	writeU32LE(rec[RDNRecordBrowseFirstByte:RDNRecordBrowseFirstByte+4], iBrowse)
	writeU32LE(rec[RDNRecordPrevFirstByte:RDNRecordPrevFirstByte+4], oPrev)
	writeU32LE(rec[RDNRecordParentDNFirstByte:RDNRecordParentDNFirstByte+4], parentOffset)
	return appendCString(rec, key), nil
}

// RDNRecordBytes returns the encoded size of an RDN record for key.
func RDNRecordBytes(key string) uint64 {
	return RDNRecordPrefixBytes + uint64(len(key)) + 1
}
