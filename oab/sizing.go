package oab

import "fmt"

// CheckRecordCount checks that accountCount accounts can be represented
// given maxRecords. An empty set is rejected as well; there is no valid
// snapshot without accounts.
func CheckRecordCount(accountCount int, maxRecords int) error {
	if accountCount == 0 {
		return ErrEmptyAccountSet
	}
	if accountCount > maxRecords {
		return fmt.Errorf("%w: %d > %d", ErrRecordCountOverflow, accountCount, maxRecords)
	}
	return nil
}

// BrowseFileBytes returns the exact size of a Browse file for accountCount
// accounts.
func BrowseFileBytes(accountCount int) uint64 {
	return BrowseHeaderBytes + uint64(accountCount)*BrowseRecordBytes
}

// RDNRecordCount returns ulTotRecs of the RDN file: one dn and one mail record
// per account.
func RDNRecordCount(accountCount int) uint32 {
	return uint32(2 * accountCount)
}

// ANRRecordCount returns ulTotRecs of the ANR file: the number of present
// displayName, sn, office and alias values across accounts.
func ANRRecordCount(accounts []Account) uint32 {
	var n uint32
	for _, acc := range accounts {
		n += uint32(len(acc.anrAttributes()))
	}
	return n
}
