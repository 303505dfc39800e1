package snapshot

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/forestrie/go-oab/oab"
	"github.com/forestrie/go-oab/oabtesting"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleTestFiles(t *testing.T, n int) oab.Files {
	t.Helper()
	g := oabtesting.NewTestGenerator(oabtesting.TestGeneratorConfig{Seed: 7})
	files, err := oab.Assemble(g.Accounts(n))
	require.NoError(t, err)
	return files
}

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestNewManifest(t *testing.T) {
	files := assembleTestFiles(t, 5)
	gen := uuid.New()

	m, err := NewManifest(gen, 1700000000000, files)
	require.NoError(t, err)

	assert.Equal(t, gen, m.Generation)
	assert.Equal(t, int64(1700000000000), m.CreatedMS)
	assert.Equal(t, uint32(5), m.Accounts)
	assert.Equal(t, uint32(10), m.RDNRecords)
	assert.Equal(t, oab.ANRRecordCount(oabtesting.NewTestGenerator(oabtesting.TestGeneratorConfig{Seed: 7}).Accounts(5)), m.ANRRecords)

	sum := sha256.Sum256(files.RDN)
	assert.Equal(t, sum[:], m.RDNSHA256)
	require.NoError(t, m.Check(files))
}

func TestNewManifestRejectsMalformedFiles(t *testing.T) {
	files := assembleTestFiles(t, 2)
	files.RDN = files.RDN[:4]
	_, err := NewManifest(uuid.New(), 0, files)
	require.ErrorIs(t, err, oab.ErrTruncated)
}

func TestManifestEncodeIsDeterministic(t *testing.T) {
	m, err := NewManifest(uuid.New(), 42, assembleTestFiles(t, 3))
	require.NoError(t, err)

	a, err := m.Encode()
	require.NoError(t, err)
	b, err := m.Encode()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	decoded, err := DecodeManifest(a)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestManifestCheckDetectsChangedFile(t *testing.T) {
	files := assembleTestFiles(t, 3)
	m, err := NewManifest(uuid.New(), 0, files)
	require.NoError(t, err)

	changed := oab.Files{
		Browse: files.Browse,
		RDN:    files.RDN,
		ANR:    append([]byte(nil), files.ANR...),
	}
	changed.ANR[len(changed.ANR)-2] ^= 0x01

	err = m.Check(changed)
	require.ErrorIs(t, err, ErrDigestMismatch)
	assert.Contains(t, err.Error(), ANRFileName)
}

func TestSealVerifies(t *testing.T) {
	key := newTestKey(t)
	signer, err := NewSigner("oab-test", key)
	require.NoError(t, err)

	m, err := NewManifest(uuid.New(), 99, assembleTestFiles(t, 4))
	require.NoError(t, err)

	seal, err := signer.Sign1(m)
	require.NoError(t, err)

	sealed, err := VerifySeal(seal, &key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, m, sealed)

	other := newTestKey(t)
	_, err = VerifySeal(seal, &other.PublicKey)
	require.ErrorIs(t, err, ErrSealVerifyFailed)
}

func TestGenerationPath(t *testing.T) {
	gen := uuid.MustParse("6f1c5d1e-3b41-4c1a-9a55-1d7c0e4a5b21")
	assert.Equal(t, "v1/oab/6f1c5d1e-3b41-4c1a-9a55-1d7c0e4a5b21/", GenerationPrefix(gen))
	assert.Equal(t, "v1/oab/6f1c5d1e-3b41-4c1a-9a55-1d7c0e4a5b21/rdndx.oab", GenerationPath(gen, RDNFileName))
}
