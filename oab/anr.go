package oab

import "fmt"

// EncodeANRHeader returns the 12 byte ANR file header.
func EncodeANRHeader(totalRecords uint32) []byte {
	hdr := make([]byte, ANRHeaderBytes)
	writeU32LE(hdr[ANRHeaderVersionFirstByte:ANRHeaderVersionFirstByte+4], ANRVersion)
	writeU32LE(hdr[ANRHeaderTotRecsFirstByte:ANRHeaderTotRecsFirstByte+4], totalRecords)
	return hdr
}

// EncodeANRRecord returns an ANR record: the 20 byte prefix followed by value
// and a NUL. oNext (and its rLT mirror) are left zero for the chain to
// backpatch.
func EncodeANRRecord(value string, oPrev uint32, iBrowse uint32, isAlias bool) ([]byte, error) {
	if iBrowse > ANRBrowseMask {
		return nil, fmt.Errorf("%w: browse index %d", ErrRecordCountOverflow, iBrowse)
	}
	word := iBrowse
	if isAlias {
		word |= ANRAliasFlag
	}

	rec := make([]byte, ANRRecordPrefixBytes, ANRRecordPrefixBytes+len(value)+1)
	writeU32LE(rec[ANRRecordLTFirstByte:ANRRecordLTFirstByte+4], oPrev)
	writeU32LE(rec[ANRRecordBrowseFirstByte:ANRRecordBrowseFirstByte+4], word)
	writeU32LE(rec[ANRRecordPrevFirstByte:ANRRecordPrevFirstByte+4], oPrev)
	return appendCString(rec, value), nil
}

// ANRRecordBytes returns the encoded size of an ANR record for value.
func ANRRecordBytes(value string) uint64 {
	return ANRRecordPrefixBytes + uint64(len(value)) + 1
}
