package oab

import "fmt"

// EncodeBrowseHeader returns the 10 byte Browse file header for count
// accounts.
func EncodeBrowseHeader(count uint32) []byte {
	hdr := make([]byte, BrowseHeaderBytes)
	writeU32LE(hdr[BrowseHeaderVersionFirstByte:BrowseHeaderVersionFirstByte+4], BrowseVersion)
	writeU32LE(hdr[BrowseHeaderTotRecsFirstByte:BrowseHeaderTotRecsFirstByte+4], count)
	return hdr
}

// EncodeBrowseRecord returns the 32 byte Browse record for account.
//
// Only the display type and the flags byte are populated; the RDN, details
// and ANR back references are left zero.
func EncodeBrowseRecord(account Account) ([]byte, error) {
	var kind byte
	switch account.Type {
	case MailUser:
		kind = mailObjectUser
	case DistList:
		kind = mailObjectDistList
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccountType, account.Type)
	}

	rec := make([]byte, BrowseRecordBytes)
	rec[BrowseRecordDispTypeByte] = byte(account.Type)
	flags := kind
	if account.SendRichInfo {
		flags |= BrowseFlagRichInfo
	}
	rec[BrowseRecordFlagsByte] = flags
	return rec, nil
}
