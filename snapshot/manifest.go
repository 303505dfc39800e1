package snapshot

import (
	"bytes"
	"fmt"

	"github.com/forestrie/go-oab/oab"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/minio/sha256-simd"
)

var (
	manifestEncMode cbor.EncMode
	manifestDecMode cbor.DecMode
)

func init() {
	var err error
	manifestEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	manifestDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Manifest describes one published generation of an address book. It is
// written after the index files, so a reader that finds a manifest can rely
// on the files it names being complete.
type Manifest struct {
	// Generation names the folder the files are published under.
	Generation uuid.UUID `cbor:"1,keyasint"`
	// CreatedMS is the unix time (milliseconds) the manifest was created.
	CreatedMS int64 `cbor:"2,keyasint"`

	// The record counts, as read back from the file headers.
	Accounts   uint32 `cbor:"3,keyasint"`
	RDNRecords uint32 `cbor:"4,keyasint"`
	ANRRecords uint32 `cbor:"5,keyasint"`

	BrowseSHA256 []byte `cbor:"6,keyasint"`
	RDNSHA256    []byte `cbor:"7,keyasint"`
	ANRSHA256    []byte `cbor:"8,keyasint"`
}

// NewManifest describes files. The headers are decoded rather than trusted
// from the caller so a manifest can only be produced for well formed files.
func NewManifest(generation uuid.UUID, createdMS int64, files oab.Files) (Manifest, error) {
	browse, err := oab.DecodeBrowseHeader(files.Browse)
	if err != nil {
		return Manifest{}, err
	}
	rdn, err := oab.DecodeRDNHeader(files.RDN)
	if err != nil {
		return Manifest{}, err
	}
	anr, err := oab.DecodeANRHeader(files.ANR)
	if err != nil {
		return Manifest{}, err
	}

	browseSum := sha256.Sum256(files.Browse)
	rdnSum := sha256.Sum256(files.RDN)
	anrSum := sha256.Sum256(files.ANR)
	return Manifest{
		Generation:   generation,
		CreatedMS:    createdMS,
		Accounts:     browse.TotRecs,
		RDNRecords:   rdn.TotRecs,
		ANRRecords:   anr.TotRecs,
		BrowseSHA256: browseSum[:],
		RDNSHA256:    rdnSum[:],
		ANRSHA256:    anrSum[:],
	}, nil
}

// Encode returns the deterministic CBOR encoding of m.
func (m Manifest) Encode() ([]byte, error) {
	return manifestEncMode.Marshal(m)
}

func DecodeManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := manifestDecMode.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Check confirms files are the files m describes.
func (m Manifest) Check(files oab.Files) error {
	for _, f := range []struct {
		name string
		data []byte
		want []byte
	}{
		{BrowseFileName, files.Browse, m.BrowseSHA256},
		{RDNFileName, files.RDN, m.RDNSHA256},
		{ANRFileName, files.ANR, m.ANRSHA256},
	} {
		sum := sha256.Sum256(f.data)
		if !bytes.Equal(sum[:], f.want) {
			return fmt.Errorf("%w: %s", ErrDigestMismatch, f.name)
		}
	}

	got, err := NewManifest(m.Generation, m.CreatedMS, files)
	if err != nil {
		return err
	}
	if got.Accounts != m.Accounts || got.RDNRecords != m.RDNRecords || got.ANRRecords != m.ANRRecords {
		return fmt.Errorf("%w: record counts", ErrManifestMismatch)
	}
	return nil
}
