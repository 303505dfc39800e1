package main

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forestrie/go-oab/accountsource"
	"github.com/forestrie/go-oab/snapshot"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountsYAML = `
entries:
  - dn: CN=Alice,DC=example,DC=com
    mail: alice@example.com
    objectClass: [user]
    displayName: Alice
  - dn: CN=Bob,DC=example,DC=com
    mail: bob@example.com
    objectClass: [user]
    sn: Builder
  - dn: CN=Staff,DC=example,DC=com
    mail: staff@example.com
    objectClass: [group]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeSealKey(t *testing.T, dir string) (string, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	return writeFile(t, dir, "seal.pem", string(pemData)), key
}

func TestRunPublishesSealedGeneration(t *testing.T) {
	dir := t.TempDir()
	accounts := writeFile(t, dir, "accounts.yaml", accountsYAML)
	keyPath, key := writeSealKey(t, dir)
	out := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"--accounts", accounts, "--out", out, "--seal-key", keyPath, "--log-level", "DEBUG",
	}, &stdout)
	require.NoError(t, err)

	prefix := strings.TrimSpace(stdout.String())
	require.True(t, strings.HasPrefix(prefix, snapshot.V1OABPrefix+"/"), prefix)
	generation, err := uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(prefix, snapshot.V1OABPrefix+"/"), "/"))
	require.NoError(t, err)

	manifest, _, err := snapshot.ReadGeneration(
		context.Background(), snapshot.NewDirStore(out), generation, &key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), manifest.Accounts)
	assert.Equal(t, uint32(6), manifest.RDNRecords)
	assert.Equal(t, uint32(2), manifest.ANRRecords)
}

func TestRunWritesMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	accounts := writeFile(t, dir, "accounts.yaml", accountsYAML)
	textfile := filepath.Join(dir, "oabgen.prom")

	err := run(context.Background(), []string{
		"--accounts", accounts, "--out", filepath.Join(dir, "out"),
		"--metrics-textfile", textfile,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "oabgen_accounts 3")
	assert.Contains(t, string(data), `oabgen_index_records{index="rdn"} 6`)
	assert.Contains(t, string(data), "oabgen_last_success_timestamp_seconds")
}

func TestRunReportsMissingAccounts(t *testing.T) {
	err := run(context.Background(), []string{"--out", t.TempDir()}, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrMissingAccounts)
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	accounts := writeFile(t, dir, "accounts.json", "{}")
	err := run(context.Background(), []string{"--accounts", accounts, "--out", dir}, &bytes.Buffer{})
	require.ErrorIs(t, err, accountsource.ErrUnknownFormat)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "oabgen.yaml", `
accounts: from-file.yaml
out: /srv/oab
maxRecords: 100
strict: true
tags:
  kind: oab
`)

	var v flagValues
	flagSet := pflag.NewFlagSet("oabgen", pflag.ContinueOnError)
	addFlags(flagSet, &v)
	require.NoError(t, flagSet.Parse([]string{"--config", configPath, "--max-records", "10"}))

	cfg, err := resolveConfig(flagSet, v)
	require.NoError(t, err)
	assert.Equal(t, "from-file.yaml", cfg.Accounts)
	assert.Equal(t, "/srv/oab", cfg.Out)
	assert.Equal(t, 10, cfg.MaxRecords)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "oabgen", cfg.SealKeyID)
	assert.Equal(t, map[string]string{"kind": "oab"}, cfg.Tags)
}

func TestResolveConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "oabgen.yaml", "acounts: typo.yaml\n")

	var v flagValues
	flagSet := pflag.NewFlagSet("oabgen", pflag.ContinueOnError)
	addFlags(flagSet, &v)
	require.NoError(t, flagSet.Parse([]string{"--config", configPath}))

	_, err := resolveConfig(flagSet, v)
	require.Error(t, err)
}

func TestLoadSealKeyRejectsGarbage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "key.pem", "not a key")
	_, err := loadSealKey(path)
	require.ErrorIs(t, err, ErrBadSealKey)
}
