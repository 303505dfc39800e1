package oab

import "fmt"

type BrowseHeader struct {
	Version uint32
	TotRecs uint32
}

// BrowseRecord holds the populated fields of a Browse record.
type BrowseRecord struct {
	DispType AccountType
	Flags    byte
}

// RichInfo reports whether the account can receive rich content.
func (r BrowseRecord) RichInfo() bool { return r.Flags&BrowseFlagRichInfo != 0 }

// MailObject returns the mail object kind code.
func (r BrowseRecord) MailObject() byte { return r.Flags &^ BrowseFlagRichInfo }

type RDNHeader struct {
	Version uint32
	Serial  uint32
	TotRecs uint32
	Root    uint32
}

type RDNRecord struct {
	Offset   uint32
	LT       uint32
	RT       uint32
	Browse   uint32
	Prev     uint32
	Next     uint32
	ParentDN uint32
	Key      string
}

type ANRHeader struct {
	Version uint32
	Serial  uint32
	TotRecs uint32
}

type ANRRecord struct {
	Offset uint32
	LT     uint32
	RT     uint32
	Browse uint32
	Alias  bool
	Prev   uint32
	Next   uint32
	Value  string
}

func DecodeBrowseHeader(data []byte) (BrowseHeader, error) {
	if len(data) < BrowseHeaderBytes {
		return BrowseHeader{}, fmt.Errorf("%w: browse header", ErrTruncated)
	}
	h := BrowseHeader{
		Version: readU32LE(data[BrowseHeaderVersionFirstByte:]),
		TotRecs: readU32LE(data[BrowseHeaderTotRecsFirstByte:]),
	}
	if h.Version != BrowseVersion {
		return BrowseHeader{}, fmt.Errorf("%w: browse %#x", ErrBadVersion, h.Version)
	}
	return h, nil
}

// DecodeBrowseRecord decodes the i'th record of a Browse file.
func DecodeBrowseRecord(data []byte, i uint32) (BrowseRecord, error) {
	off := uint64(BrowseHeaderBytes) + uint64(i)*BrowseRecordBytes
	if off+BrowseRecordBytes > uint64(len(data)) {
		return BrowseRecord{}, fmt.Errorf("%w: browse record %d", ErrTruncated, i)
	}
	rec := data[off : off+BrowseRecordBytes]
	return BrowseRecord{
		DispType: AccountType(rec[BrowseRecordDispTypeByte]),
		Flags:    rec[BrowseRecordFlagsByte],
	}, nil
}

func DecodeRDNHeader(data []byte) (RDNHeader, error) {
	if len(data) < RDNHeaderBytes {
		return RDNHeader{}, fmt.Errorf("%w: rdn header", ErrTruncated)
	}
	h := RDNHeader{
		Version: readU32LE(data[RDNHeaderVersionFirstByte:]),
		Serial:  readU32LE(data[RDNHeaderSerialFirstByte:]),
		TotRecs: readU32LE(data[RDNHeaderTotRecsFirstByte:]),
		Root:    readU32LE(data[RDNHeaderRootFirstByte:]),
	}
	if h.Version != RDNVersion {
		return RDNHeader{}, fmt.Errorf("%w: rdn %#x", ErrBadVersion, h.Version)
	}
	return h, nil
}

// DecodeRDNRecord decodes the RDN record at off.
func DecodeRDNRecord(data []byte, off uint32) (RDNRecord, error) {
	if uint64(off)+RDNRecordPrefixBytes > uint64(len(data)) {
		return RDNRecord{}, fmt.Errorf("%w: rdn record at %d", ErrTruncated, off)
	}
	p := data[off : off+RDNRecordPrefixBytes]
	key, _, err := readCString(data, off+RDNRecordPrefixBytes)
	if err != nil {
		return RDNRecord{}, fmt.Errorf("rdn record at %d: %w", off, err)
	}
	return RDNRecord{
		Offset:   off,
		LT:       readU32LE(p[RDNRecordLTFirstByte:]),
		RT:       readU32LE(p[RDNRecordRTFirstByte:]),
		Browse:   readU32LE(p[RDNRecordBrowseFirstByte:]),
		Prev:     readU32LE(p[RDNRecordPrevFirstByte:]),
		Next:     readU32LE(p[RDNRecordNextFirstByte:]),
		ParentDN: readU32LE(p[RDNRecordParentDNFirstByte:]),
		Key:      key,
	}, nil
}

// ParentAt returns the NUL terminated parent name at off.
func ParentAt(data []byte, off uint32) (string, error) {
	s, _, err := readCString(data, off)
	return s, err
}

// ReadParentTable returns the parent table entries of an RDN file, in file
// order.
func ReadParentTable(data []byte) ([]ParentEntry, error) {
	h, err := DecodeRDNHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Root < RDNHeaderBytes || uint64(h.Root) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: oRoot %d", ErrBrokenChain, h.Root)
	}
	table := data[:h.Root]
	var entries []ParentEntry
	for off := uint32(RDNHeaderBytes); off < h.Root; {
		name, n, err := readCString(table, off)
		if err != nil {
			return nil, fmt.Errorf("parent table at %d: %w", off, err)
		}
		entries = append(entries, ParentEntry{Name: name, Offset: off})
		off += n
	}
	return entries, nil
}

// ReadRDNChain walks an RDN file forward from oRoot and returns its records
// in chain order.
//
// The walk checks that every oPrev names the record before it, that the
// degenerate tree fields mirror the list links, that offsets increase, that
// every oParentDN is the start of a parent table entry, and that the chain
// holds exactly ulTotRecs records. An RDN file always has at least one
// record.
func ReadRDNChain(data []byte) ([]RDNRecord, error) {
	h, err := DecodeRDNHeader(data)
	if err != nil {
		return nil, err
	}
	if h.TotRecs == 0 {
		return nil, fmt.Errorf("%w: no records", ErrBrokenChain)
	}
	if h.Root < RDNHeaderBytes || uint64(h.Root) >= uint64(len(data)) {
		return nil, fmt.Errorf("%w: oRoot %d", ErrBrokenChain, h.Root)
	}
	entries, err := ReadParentTable(data)
	if err != nil {
		return nil, err
	}
	parents := make(map[uint32]struct{}, len(entries))
	for _, e := range entries {
		parents[e.Offset] = struct{}{}
	}

	records := make([]RDNRecord, 0, h.TotRecs)
	var prev uint32
	for next := h.Root; next != 0; {
		if uint32(len(records)) == h.TotRecs {
			return nil, fmt.Errorf("%w: more than %d records", ErrBrokenChain, h.TotRecs)
		}
		rec, err := DecodeRDNRecord(data, next)
		if err != nil {
			return nil, err
		}
		if err := checkLinks(rec.Offset, prev, rec.Prev, rec.Next, rec.LT, rec.RT); err != nil {
			return nil, err
		}
		if _, ok := parents[rec.ParentDN]; !ok {
			return nil, fmt.Errorf("%w: record at %d has oParentDN %d, not a parent table entry",
				ErrBrokenChain, rec.Offset, rec.ParentDN)
		}
		records = append(records, rec)
		prev = rec.Offset
		next = rec.Next
	}
	if uint32(len(records)) != h.TotRecs {
		return nil, fmt.Errorf("%w: %d records, header says %d", ErrBrokenChain, len(records), h.TotRecs)
	}
	return records, nil
}

func DecodeANRHeader(data []byte) (ANRHeader, error) {
	if len(data) < ANRHeaderBytes {
		return ANRHeader{}, fmt.Errorf("%w: anr header", ErrTruncated)
	}
	h := ANRHeader{
		Version: readU32LE(data[ANRHeaderVersionFirstByte:]),
		Serial:  readU32LE(data[ANRHeaderSerialFirstByte:]),
		TotRecs: readU32LE(data[ANRHeaderTotRecsFirstByte:]),
	}
	if h.Version != ANRVersion {
		return ANRHeader{}, fmt.Errorf("%w: anr %#x", ErrBadVersion, h.Version)
	}
	return h, nil
}

// DecodeANRRecord decodes the ANR record at off.
func DecodeANRRecord(data []byte, off uint32) (ANRRecord, error) {
	if uint64(off)+ANRRecordPrefixBytes > uint64(len(data)) {
		return ANRRecord{}, fmt.Errorf("%w: anr record at %d", ErrTruncated, off)
	}
	p := data[off : off+ANRRecordPrefixBytes]
	value, _, err := readCString(data, off+ANRRecordPrefixBytes)
	if err != nil {
		return ANRRecord{}, fmt.Errorf("anr record at %d: %w", off, err)
	}
	word := readU32LE(p[ANRRecordBrowseFirstByte:])
	return ANRRecord{
		Offset: off,
		LT:     readU32LE(p[ANRRecordLTFirstByte:]),
		RT:     readU32LE(p[ANRRecordRTFirstByte:]),
		Browse: word & ANRBrowseMask,
		Alias:  word&ANRAliasFlag != 0,
		Prev:   readU32LE(p[ANRRecordPrevFirstByte:]),
		Next:   readU32LE(p[ANRRecordNextFirstByte:]),
		Value:  value,
	}, nil
}

// ReadANRChain walks an ANR file forward from the first record, which
// immediately follows the header, and returns its records in chain order.
// A file with no records is exactly one header long.
func ReadANRChain(data []byte) ([]ANRRecord, error) {
	h, err := DecodeANRHeader(data)
	if err != nil {
		return nil, err
	}
	if h.TotRecs == 0 {
		if len(data) != ANRHeaderBytes {
			return nil, fmt.Errorf("%w: %d bytes after an empty header", ErrBrokenChain, len(data)-ANRHeaderBytes)
		}
		return nil, nil
	}

	records := make([]ANRRecord, 0, h.TotRecs)
	var prev uint32
	for next := uint32(ANRHeaderBytes); next != 0; {
		if uint32(len(records)) == h.TotRecs {
			return nil, fmt.Errorf("%w: more than %d records", ErrBrokenChain, h.TotRecs)
		}
		rec, err := DecodeANRRecord(data, next)
		if err != nil {
			return nil, err
		}
		if err := checkLinks(rec.Offset, prev, rec.Prev, rec.Next, rec.LT, rec.RT); err != nil {
			return nil, err
		}
		records = append(records, rec)
		prev = rec.Offset
		next = rec.Next
	}
	if uint32(len(records)) != h.TotRecs {
		return nil, fmt.Errorf("%w: %d records, header says %d", ErrBrokenChain, len(records), h.TotRecs)
	}
	return records, nil
}

func checkLinks(off, wantPrev, prev, next, lt, rt uint32) error {
	if prev != wantPrev {
		return fmt.Errorf("%w: record at %d has oPrev %d, want %d", ErrBrokenChain, off, prev, wantPrev)
	}
	if lt != prev || rt != next {
		return fmt.Errorf("%w: record at %d tree links do not mirror list links", ErrBrokenChain, off)
	}
	if next != 0 && next <= off {
		return fmt.Errorf("%w: record at %d has oNext %d", ErrBrokenChain, off, next)
	}
	return nil
}
