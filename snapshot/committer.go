package snapshot

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-oab/oab"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type CommitterConfig struct {
	// Overwrite permits re-publishing objects of an existing generation.
	// Ordinarily each generation is written exactly once.
	Overwrite bool
}

type CommitterOptions struct {
	Signer *Signer
	Clock  clock.Clock
}

type Option func(any)

// WithSigner seals each manifest, producing a manifest.sth object.
func WithSigner(signer *Signer) Option {
	return func(a any) {
		if o, ok := a.(*CommitterOptions); ok {
			o.Signer = signer
		}
	}
}

// WithClock overrides the creation time source.
func WithClock(c clock.Clock) Option {
	return func(a any) {
		if o, ok := a.(*CommitterOptions); ok {
			o.Clock = c
		}
	}
}

// Committer publishes assembled address books as immutable generations.
type Committer struct {
	Cfg   CommitterConfig
	Log   logger.Logger
	Store ObjectWriter
	opts  CommitterOptions
}

// Commit describes a published generation.
type Commit struct {
	Generation uuid.UUID
	Prefix     string
	Manifest   Manifest
	// Seal is nil when the committer has no signer.
	Seal []byte
	// Bytes is the total stored size of the generation's objects.
	Bytes int
}

func NewCommitter(cfg CommitterConfig, log logger.Logger, store ObjectWriter, opts ...Option) *Committer {
	c := &Committer{
		Cfg:   cfg,
		Log:   log,
		Store: store,
		opts:  CommitterOptions{Clock: clock.New()},
	}
	for _, o := range opts {
		o(&c.opts)
	}
	return c
}

// Commit publishes files under a freshly allocated generation.
func (c *Committer) Commit(ctx context.Context, files oab.Files) (Commit, error) {
	return c.CommitGeneration(ctx, uuid.New(), files)
}

// CommitGeneration publishes files under generation. The index files are
// written first, then the manifest, then the seal. A generation whose
// manifest is absent is incomplete and must be ignored by readers.
func (c *Committer) CommitGeneration(ctx context.Context, generation uuid.UUID, files oab.Files) (Commit, error) {
	manifest, err := NewManifest(generation, c.opts.Clock.Now().UnixMilli(), files)
	if err != nil {
		return Commit{}, err
	}
	manifestData, err := manifest.Encode()
	if err != nil {
		return Commit{}, err
	}

	var seal []byte
	if c.opts.Signer != nil {
		if seal, err = c.opts.Signer.Sign1(manifest); err != nil {
			return Commit{}, err
		}
	}

	sizes := make([]int, 3)
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range []struct {
		name string
		data []byte
	}{
		{BrowseFileName, files.Browse},
		{RDNFileName, files.RDN},
		{ANRFileName, files.ANR},
	} {
		f := f
		sizes[i] = len(f.data)
		g.Go(func() error {
			return c.put(gctx, generation, f.name, f.data)
		})
	}
	if err := g.Wait(); err != nil {
		return Commit{}, err
	}

	if err := c.put(ctx, generation, ManifestFileName, manifestData); err != nil {
		return Commit{}, err
	}
	if seal != nil {
		if err := c.put(ctx, generation, SealFileName, seal); err != nil {
			return Commit{}, err
		}
	}

	total := len(manifestData) + len(seal)
	for _, n := range sizes {
		total += n
	}
	c.Log.Infof(
		"committed generation %s: accounts %d, rdn records %d, anr records %d",
		generation, manifest.Accounts, manifest.RDNRecords, manifest.ANRRecords)

	return Commit{
		Generation: generation,
		Prefix:     GenerationPrefix(generation),
		Manifest:   manifest,
		Seal:       seal,
		Bytes:      total,
	}, nil
}

func (c *Committer) put(ctx context.Context, generation uuid.UUID, name string, data []byte) error {
	path := GenerationPath(generation, name)
	if err := c.Store.Put(ctx, path, data, !c.Cfg.Overwrite); err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	c.Log.Debugf("put %s (%d bytes)", path, len(data))
	return nil
}

// ReadGeneration fetches a published generation and checks it. The files
// must match the manifest digests and their record chains must be intact.
// If publicKey is not nil the generation must carry a seal that verifies
// and that seals the same manifest.
func ReadGeneration(ctx context.Context, store ObjectReader, generation uuid.UUID, publicKey *ecdsa.PublicKey) (Manifest, oab.Files, error) {
	get := func(name string) ([]byte, error) {
		path := GenerationPath(generation, name)
		data, err := store.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", path, err)
		}
		return data, nil
	}

	manifestData, err := get(ManifestFileName)
	if err != nil {
		return Manifest{}, oab.Files{}, err
	}
	manifest, err := DecodeManifest(manifestData)
	if err != nil {
		return Manifest{}, oab.Files{}, err
	}
	if manifest.Generation != generation {
		return Manifest{}, oab.Files{}, fmt.Errorf("%w: generation %s", ErrManifestMismatch, manifest.Generation)
	}

	if publicKey != nil {
		if err := checkSeal(manifestData, publicKey, get); err != nil {
			return Manifest{}, oab.Files{}, err
		}
	}

	var files oab.Files
	if files.Browse, err = get(BrowseFileName); err != nil {
		return Manifest{}, oab.Files{}, err
	}
	if files.RDN, err = get(RDNFileName); err != nil {
		return Manifest{}, oab.Files{}, err
	}
	if files.ANR, err = get(ANRFileName); err != nil {
		return Manifest{}, oab.Files{}, err
	}
	if err := manifest.Check(files); err != nil {
		return Manifest{}, oab.Files{}, err
	}
	if _, err := oab.ReadRDNChain(files.RDN); err != nil {
		return Manifest{}, oab.Files{}, err
	}
	if _, err := oab.ReadANRChain(files.ANR); err != nil {
		return Manifest{}, oab.Files{}, err
	}
	return manifest, files, nil
}

func checkSeal(
	manifestData []byte, publicKey *ecdsa.PublicKey,
	get func(name string) ([]byte, error),
) error {
	seal, err := get(SealFileName)
	if errors.Is(err, ErrNotFound) {
		return ErrSealMissing
	}
	if err != nil {
		return err
	}
	sealed, err := VerifySeal(seal, publicKey)
	if err != nil {
		return err
	}
	sealedData, err := sealed.Encode()
	if err != nil {
		return err
	}
	if !bytes.Equal(sealedData, manifestData) {
		return fmt.Errorf("%w: sealed manifest differs from %s", ErrManifestMismatch, ManifestFileName)
	}
	return nil
}
