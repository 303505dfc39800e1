package oab

import "fmt"

// Files holds the three completed index files of a snapshot.
type Files struct {
	Browse []byte
	RDN    []byte
	ANR    []byte
}

// Assembler builds snapshot files. It holds only configuration; each
// Assemble call owns its buffers and tables, so an Assembler may be shared
// between goroutines.
type Assembler struct {
	cfg Config
}

func NewAssembler(opts ...Option) *Assembler {
	return &Assembler{cfg: NewConfig(opts...)}
}

// Config returns the effective configuration.
func (a *Assembler) Config() Config {
	return a.cfg
}

// Assemble builds the Browse, RDN and ANR files for accounts with the default
// configuration.
func Assemble(accounts []Account, opts ...Option) (Files, error) {
	return NewAssembler(opts...).Assemble(accounts)
}

// Assemble builds the Browse, RDN and ANR files for accounts, in account
// order. On error no file is returned.
func (a *Assembler) Assemble(accounts []Account) (Files, error) {
	if err := CheckRecordCount(len(accounts), a.cfg.MaxRecords); err != nil {
		return Files{}, err
	}
	for i, acc := range accounts {
		if err := acc.Validate(); err != nil {
			return Files{}, fmt.Errorf("account %d (%s): %w", i, acc.DN, err)
		}
	}

	browse, err := buildBrowse(accounts)
	if err != nil {
		return Files{}, err
	}
	rdn, err := buildRDN(accounts)
	if err != nil {
		return Files{}, err
	}
	anr, err := buildANR(accounts)
	if err != nil {
		return Files{}, err
	}
	return Files{Browse: browse, RDN: rdn, ANR: anr}, nil
}

func buildBrowse(accounts []Account) ([]byte, error) {
	buf := NewBuffer(int(BrowseFileBytes(len(accounts))))
	if _, err := buf.Append(EncodeBrowseHeader(uint32(len(accounts)))); err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		rec, err := EncodeBrowseRecord(acc)
		if err != nil {
			return nil, err
		}
		if _, err := buf.Append(rec); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// rdnEntry is the key and parent of one RDN record.
type rdnEntry struct {
	key    string
	parent string
}

func rdnEntries(acc Account) ([2]rdnEntry, error) {
	var e [2]rdnEntry
	var err error
	if e[0].key, e[0].parent, err = acc.dnParts(); err != nil {
		return e, err
	}
	if e[1].key, e[1].parent, err = acc.mailParts(); err != nil {
		return e, err
	}
	return e, nil
}

func buildRDN(accounts []Account) ([]byte, error) {
	buf := NewBuffer(RDNHeaderBytes + len(accounts)*2*(RDNRecordPrefixBytes+16))
	hdr, err := buf.Append(EncodeRDNHeader(0))
	if err != nil {
		return nil, err
	}

	// Pass 1: every parent name gets its offset before any record is placed,
	// which fixes the chain root.
	table := NewParentTable(buf.Offset())
	for _, acc := range accounts {
		entries, err := rdnEntries(acc)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if _, err := table.Register(e.parent); err != nil {
				return nil, err
			}
		}
	}
	if _, err := buf.Append(table.Bytes()); err != nil {
		return nil, err
	}

	// Pass 2: the record chain.
	chain := NewChain(buf, rdnForwardFields...)
	for i, acc := range accounts {
		entries, err := rdnEntries(acc)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			parentOff, ok := table.Lookup(e.parent)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnresolvedParentDN, e.parent)
			}
			rec, err := EncodeRDNRecord(e.key, parentOff, chain.Prev(), uint32(i))
			if err != nil {
				return nil, err
			}
			if _, err := chain.Append(rec); err != nil {
				return nil, err
			}
		}
	}
	chain.Close()

	buf.PatchUint32(hdr+RDNHeaderTotRecsFirstByte, chain.Len())
	buf.PatchUint32(hdr+RDNHeaderRootFirstByte, chain.Root())
	return buf.Bytes(), nil
}

func buildANR(accounts []Account) ([]byte, error) {
	buf := NewBuffer(ANRHeaderBytes + len(accounts)*(ANRRecordPrefixBytes+16))
	hdr, err := buf.Append(EncodeANRHeader(0))
	if err != nil {
		return nil, err
	}

	chain := NewChain(buf, anrForwardFields...)
	for i, acc := range accounts {
		for _, attr := range acc.anrAttributes() {
			rec, err := EncodeANRRecord(attr.value, chain.Prev(), uint32(i), attr.isAlias)
			if err != nil {
				return nil, err
			}
			if _, err := chain.Append(rec); err != nil {
				return nil, err
			}
		}
	}
	chain.Close()

	buf.PatchUint32(hdr+ANRHeaderTotRecsFirstByte, chain.Len())
	return buf.Bytes(), nil
}
