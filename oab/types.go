package oab

import "errors"

const (
	// BrowseVersion is the ulVersion tag of the Browse file.
	BrowseVersion = uint32(0x0A)
	// RDNVersion is the ulVersion tag of the RDN index file.
	RDNVersion = uint32(0x0E)
	// ANRVersion is the ulVersion tag of the ANR index file.
	ANRVersion = uint32(0x0E)

	// DefaultMaxRecords is the largest ulTotRecs value the format can carry.
	DefaultMaxRecords = 16777212
)

const (

	// Browse header layout
	//
	// .     | ulVersion | ulTotRecs | reserved |
	// .     | 0 - 3     | 4 - 7     | 8 - 9    |
	BrowseHeaderBytes = 10

	BrowseHeaderVersionFirstByte = 0
	BrowseHeaderTotRecsFirstByte = 4

	// Browse record layout
	//
	// .     | oRDN | oDetails | cbDetails | dispType | flags | oAlias | oLocation | oSurname | reserved |
	// .     | 0-3  | 4-7      | 8-9       | 10       | 11    | 12-15  | 16-19     | 20-23    | 24-31    |
	BrowseRecordBytes = 32

	BrowseRecordDispTypeByte = 10
	BrowseRecordFlagsByte    = 11

	// BrowseFlagRichInfo marks an account able to receive rich content.
	BrowseFlagRichInfo = byte(0x80)

	// RDN header layout
	//
	// .     | ulVersion | ulSerial | ulTotRecs | oRoot   |
	// .     | 0 - 3     | 4 - 7    | 8 - 11    | 12 - 15 |
	RDNHeaderBytes = 16

	RDNHeaderVersionFirstByte = 0
	RDNHeaderSerialFirstByte  = 4
	RDNHeaderTotRecsFirstByte = 8
	RDNHeaderRootFirstByte    = 12

	// RDN record layout, followed by the key and a single NUL
	//
	// .     | oLT  | rLT  | iBrowse | oPrev   | oNext   | oParentDN |
	// .     | 0-3  | 4-7  | 8-11    | 12 - 15 | 16 - 19 | 20 - 23   |
	RDNRecordPrefixBytes = 24

	RDNRecordLTFirstByte       = 0
	RDNRecordRTFirstByte       = 4
	RDNRecordBrowseFirstByte   = 8
	RDNRecordPrevFirstByte     = 12
	RDNRecordNextFirstByte     = 16
	RDNRecordParentDNFirstByte = 20

	// ANR header layout
	//
	// .     | ulVersion | ulSerial | ulTotRecs |
	// .     | 0 - 3     | 4 - 7    | 8 - 11    |
	ANRHeaderBytes = 12

	ANRHeaderVersionFirstByte = 0
	ANRHeaderSerialFirstByte  = 4
	ANRHeaderTotRecsFirstByte = 8

	// ANR record layout, followed by the value and a single NUL
	//
	// .     | oLT  | rLT  | alias:1 iBrowse:31 | oPrev   | oNext   |
	// .     | 0-3  | 4-7  | 8-11               | 12 - 15 | 16 - 19 |
	ANRRecordPrefixBytes = 20

	ANRRecordLTFirstByte     = 0
	ANRRecordRTFirstByte     = 4
	ANRRecordBrowseFirstByte = 8
	ANRRecordPrevFirstByte   = 12
	ANRRecordNextFirstByte   = 16

	// ANRAliasFlag is set in the iBrowse word of records holding an alias.
	ANRAliasFlag = uint32(1) << 31
	// ANRBrowseMask selects the browse index bits of the iBrowse word.
	ANRBrowseMask = ANRAliasFlag - 1
)

// rdnForwardFields are the record relative positions written once the next
// record's offset is known.
var rdnForwardFields = []uint32{RDNRecordRTFirstByte, RDNRecordNextFirstByte}

var anrForwardFields = []uint32{ANRRecordRTFirstByte, ANRRecordNextFirstByte}

// AccountType is the closed set of address book object kinds. The numeric
// values are the Browse record bDispType codes.
type AccountType uint8

const (
	MailUser AccountType = 0
	DistList AccountType = 1
)

// mail object kind codes packed into the low bits of the browse flags byte.
const (
	mailObjectUser     = byte(0x06)
	mailObjectDistList = byte(0x08)
)

func (t AccountType) String() string {
	switch t {
	case MailUser:
		return "mailuser"
	case DistList:
		return "distlist"
	default:
		return "unknown"
	}
}

var (
	ErrValidation          = errors.New("oab: invalid account")
	ErrInvalidAccountType  = errors.New("oab: invalid account type")
	ErrUnresolvedParentDN  = errors.New("oab: parent name not registered in the parent table")
	ErrRecordCountOverflow = errors.New("oab: account count exceeds the maximum record count")
	ErrEmptyAccountSet     = errors.New("oab: no accounts")
	ErrOffsetOverflow      = errors.New("oab: file offset does not fit in 32 bits")

	ErrBadVersion  = errors.New("oab: header version invalid")
	ErrTruncated   = errors.New("oab: data truncated")
	ErrBrokenChain = errors.New("oab: record chain links inconsistent")
)
