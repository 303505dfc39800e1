// oabgen builds an offline address book snapshot from an exported account
// list and publishes it as a new generation.
//
//	oabgen --accounts accounts.yaml --out ./oab [--seal-key key.pem]
//
// The generation prefix is printed on success.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/dustin/go-humanize"
	"github.com/forestrie/go-oab/accountsource"
	"github.com/forestrie/go-oab/oab"
	"github.com/forestrie/go-oab/snapshot"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var v flagValues
	flagSet := pflag.NewFlagSet("oabgen", pflag.ContinueOnError)
	addFlags(flagSet, &v)
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := resolveConfig(flagSet, v)
	if err != nil {
		return err
	}
	start := time.Now()

	logger.New(cfg.LogLevel)
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName("oabgen")

	loader := accountsource.NewLoader(accountsource.LoaderConfig{Strict: cfg.Strict}, log)
	accounts, err := loader.LoadFile(cfg.Accounts)
	if err != nil {
		return err
	}

	files, err := oab.NewAssembler(oab.WithMaxRecords(cfg.MaxRecords)).Assemble(accounts)
	if err != nil {
		return err
	}
	log.Infof("assembled %d accounts: browse %s, rdn %s, anr %s",
		len(accounts),
		humanize.IBytes(uint64(len(files.Browse))),
		humanize.IBytes(uint64(len(files.RDN))),
		humanize.IBytes(uint64(len(files.ANR))))

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	var opts []snapshot.Option
	if cfg.SealKey != "" {
		key, err := loadSealKey(cfg.SealKey)
		if err != nil {
			return err
		}
		signer, err := snapshot.NewSigner(cfg.SealKeyID, key)
		if err != nil {
			return err
		}
		opts = append(opts, snapshot.WithSigner(signer))
	}

	committer := snapshot.NewCommitter(snapshot.CommitterConfig{Overwrite: cfg.Overwrite}, log, store, opts...)
	commit, err := committer.Commit(ctx, files)
	if err != nil {
		return err
	}
	log.Infof("published %s (%s)", commit.Prefix, humanize.IBytes(uint64(commit.Bytes)))

	if cfg.MetricsTextfile != "" {
		m := newMetrics()
		m.observe(commit, time.Since(start))
		if err := m.writeTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
	}
	fmt.Fprintln(stdout, commit.Prefix)
	return nil
}

func newStore(cfg Config) (snapshot.ObjectWriter, error) {
	if cfg.AzuriteContainer == "" {
		return snapshot.NewDirStore(cfg.Out), nil
	}
	storer, err := azblob.NewDev(azblob.NewDevConfigFromEnv(), cfg.AzuriteContainer)
	if err != nil {
		return nil, err
	}
	return snapshot.NewBlobStore(storer, cfg.Tags), nil
}
