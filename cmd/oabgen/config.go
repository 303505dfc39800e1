package main

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingAccounts = errors.New("oabgen: --accounts is required")
	ErrMissingOut      = errors.New("oabgen: one of --out or --azurite-container is required")
	ErrBadSealKey      = errors.New("oabgen: seal key is not a PEM encoded EC private key")
)

// Config is the generator configuration. A YAML file may provide any field;
// flags given on the command line take precedence.
type Config struct {
	Accounts   string `yaml:"accounts"`
	Out        string `yaml:"out"`
	MaxRecords int    `yaml:"maxRecords"`
	LogLevel   string `yaml:"logLevel"`
	Strict     bool   `yaml:"strict"`
	Overwrite  bool   `yaml:"overwrite"`

	MetricsTextfile string `yaml:"metricsTextfile"`

	SealKey   string `yaml:"sealKey"`
	SealKeyID string `yaml:"sealKeyID"`

	// AzuriteContainer publishes to the named container of the local blob
	// store emulator instead of Out.
	AzuriteContainer string            `yaml:"azuriteContainer"`
	Tags             map[string]string `yaml:"tags"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:  "INFO",
		SealKeyID: "oabgen",
	}
}

type flagValues struct {
	configPath string
	cfg        Config
}

func addFlags(flagSet *pflag.FlagSet, v *flagValues) {
	flagSet.StringVar(&v.configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&v.cfg.Accounts, "accounts", "", "account list (.yaml, .yml or .cbor)")
	flagSet.StringVar(&v.cfg.Out, "out", "", "directory the generation is published below")
	flagSet.IntVar(&v.cfg.MaxRecords, "max-records", 0, "largest accepted account count (0 selects the format limit)")
	flagSet.StringVar(&v.cfg.LogLevel, "log-level", "INFO", "log level")
	flagSet.BoolVar(&v.cfg.Strict, "strict", false, "fail on invalid entries instead of skipping them")
	flagSet.BoolVar(&v.cfg.Overwrite, "overwrite", false, "permit replacing objects of an existing generation")
	flagSet.StringVar(&v.cfg.MetricsTextfile, "metrics-textfile", "", "write run metrics to this prometheus textfile")
	flagSet.StringVar(&v.cfg.SealKey, "seal-key", "", "PEM EC P-256 private key used to seal the manifest")
	flagSet.StringVar(&v.cfg.SealKeyID, "seal-key-id", "oabgen", "key id recorded in the manifest seal")
	flagSet.StringVar(&v.cfg.AzuriteContainer, "azurite-container", "", "publish to this blob emulator container")
}

// resolveConfig layers defaults, the optional config file and the flags the
// caller actually set.
func resolveConfig(flagSet *pflag.FlagSet, v flagValues) (Config, error) {
	cfg := defaultConfig()
	if v.configPath != "" {
		data, err := os.ReadFile(v.configPath)
		if err != nil {
			return Config{}, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", v.configPath, err)
		}
	}

	set := map[string]func(){
		"accounts":          func() { cfg.Accounts = v.cfg.Accounts },
		"out":               func() { cfg.Out = v.cfg.Out },
		"max-records":       func() { cfg.MaxRecords = v.cfg.MaxRecords },
		"log-level":         func() { cfg.LogLevel = v.cfg.LogLevel },
		"strict":            func() { cfg.Strict = v.cfg.Strict },
		"overwrite":         func() { cfg.Overwrite = v.cfg.Overwrite },
		"metrics-textfile":  func() { cfg.MetricsTextfile = v.cfg.MetricsTextfile },
		"seal-key":          func() { cfg.SealKey = v.cfg.SealKey },
		"seal-key-id":       func() { cfg.SealKeyID = v.cfg.SealKeyID },
		"azurite-container": func() { cfg.AzuriteContainer = v.cfg.AzuriteContainer },
	}
	flagSet.Visit(func(f *pflag.Flag) {
		if apply, ok := set[f.Name]; ok {
			apply()
		}
	})

	if cfg.Accounts == "" {
		return Config{}, ErrMissingAccounts
	}
	if cfg.Out == "" && cfg.AzuriteContainer == "" {
		return Config{}, ErrMissingOut
	}
	return cfg, nil
}

// loadSealKey reads a SEC 1 or PKCS #8 encoded EC private key.
func loadSealKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrBadSealKey
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSealKey, err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, ErrBadSealKey
	}
	return key, nil
}
