package accountsource

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-oab/oab"
	"go.uber.org/multierr"
)

var (
	ErrUnknownFormat = errors.New("accountsource: unknown account list format")
	ErrRejected      = errors.New("accountsource: entry rejected")
)

type Format uint8

const (
	FormatYAML Format = iota
	FormatCBOR
)

// FormatFromPath selects the list format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

type LoaderConfig struct {
	// Strict makes entries that fail account validation an error rather than
	// skipping them.
	Strict bool
}

// Loader turns exported directory entries into the ordered, de-duplicated
// account list the assembler consumes.
type Loader struct {
	Cfg LoaderConfig
	Log logger.Logger
}

func NewLoader(cfg LoaderConfig, log logger.Logger) *Loader {
	return &Loader{Cfg: cfg, Log: log}
}

// LoadFile reads and converts the account list at path.
func (l *Loader) LoadFile(path string) ([]oab.Account, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.Load(f, format)
}

// Load reads and converts an account list in the given format.
func (l *Loader) Load(r io.Reader, format Format) ([]oab.Account, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var list List
	switch format {
	case FormatYAML:
		list, err = UnmarshalYAML(data)
	case FormatCBOR:
		list, err = UnmarshalCBOR(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return l.Accounts(list.Entries)
}

// Accounts converts entries in order. Entries without mail or without a
// user/group class are skipped, as are later entries repeating an earlier
// DN. Entries that fail validation are skipped unless the loader is strict,
// in which case every rejected entry is reported.
func (l *Loader) Accounts(entries []Entry) ([]oab.Account, error) {
	accounts := make([]oab.Account, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	var rejected error
	var skipped int
	for i, e := range entries {
		acc, ok := e.Account()
		if !ok {
			l.Log.Debugf("entry %d (%s): not an address book object", i, e.DN)
			skipped++
			continue
		}
		if _, dup := seen[acc.DN]; dup {
			l.Log.Debugf("entry %d (%s): duplicate dn", i, e.DN)
			skipped++
			continue
		}
		if err := acc.Validate(); err != nil {
			if l.Cfg.Strict {
				rejected = multierr.Append(rejected, fmt.Errorf("%w: entry %d: %w", ErrRejected, i, err))
				continue
			}
			l.Log.Infof("entry %d (%s): skipped: %v", i, e.DN, err)
			skipped++
			continue
		}
		seen[acc.DN] = struct{}{}
		accounts = append(accounts, acc)
	}
	if rejected != nil {
		return nil, rejected
	}
	l.Log.Infof("loaded %d accounts from %d entries (%d skipped)", len(accounts), len(entries), skipped)
	return accounts, nil
}
