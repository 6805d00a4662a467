package keystore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/orion-protocol/orion-fhe/internal/hexcodec"
	"github.com/orion-protocol/orion-fhe/internal/keystore"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	// Parent directories must be created on demand.
	path := filepath.Join(t.TempDir(), "keys", "nested", "fheClientKey.hex")
	blob := []byte{0xde, 0xad, 0xbe, 0xef, 0x00}

	require.NoError(t, keystore.Save(path, blob))

	got, err := keystore.Load(path)
	require.NoError(t, err)
	require.Equal(t, blob, got)

	// Content on disk is the hex text form.
	text, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "deadbeef00", string(text))
}

func TestLoadMissingPath(t *testing.T) {
	_, err := keystore.Load(filepath.Join(t.TempDir(), "nonexistent", "key.hex"))
	var readErr *keystore.ReadError
	require.ErrorAs(t, err, &readErr)
	require.NotEmpty(t, readErr.Path)
}

func TestLoadMalformedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.hex")
	require.NoError(t, os.WriteFile(path, []byte("zz11"), 0o600))

	_, err := keystore.Load(path)
	require.ErrorIs(t, err, hexcodec.ErrMalformedEncoding)
}

func TestLoadToleratesTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.hex")
	require.NoError(t, keystore.Save(path, []byte("Hello")))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := keystore.Load(path)
	require.NoError(t, err)
	require.Equal(t, []byte("Hello"), got)
}

func TestSaveOverwritesLastWriterWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.hex")
	require.NoError(t, keystore.Save(path, []byte{0x01}))
	require.NoError(t, keystore.Save(path, []byte{0x02}))

	got, err := keystore.Load(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02}, got)
}

func TestFingerprint(t *testing.T) {
	a := keystore.Fingerprint([]byte("blob"))
	require.Len(t, a, 64)
	require.Equal(t, a, keystore.Fingerprint([]byte("blob")))
	require.NotEqual(t, a, keystore.Fingerprint([]byte("other")))
}

func TestRegistryRoundTrip(t *testing.T) {
	reg, err := keystore.OpenRegistry(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	defer reg.Close()

	entry := &keystore.RegistryEntry{
		UUID:          uuid.New(),
		Fingerprint:   keystore.Fingerprint([]byte("server key blob")),
		ClientKeyPath: "/keys/fheClientKey.hex",
		ServerKeyPath: "/keys/fheServerKey.hex",
		CreatedAt:     time.Now().Truncate(time.Second),
	}
	require.NoError(t, reg.Record(entry))

	got, err := reg.Get(entry.UUID)
	require.NoError(t, err)
	require.Equal(t, entry.UUID, got.UUID)
	require.Equal(t, entry.Fingerprint, got.Fingerprint)
	require.Equal(t, entry.ClientKeyPath, got.ClientKeyPath)
	require.Equal(t, entry.ServerKeyPath, got.ServerKeyPath)
	require.Equal(t, entry.CreatedAt.Unix(), got.CreatedAt.Unix())

	// Duplicate identifiers are rejected.
	require.Error(t, reg.Record(entry))

	second := &keystore.RegistryEntry{
		UUID:        uuid.New(),
		Fingerprint: keystore.Fingerprint([]byte("another")),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, reg.Record(second))

	entries, err := reg.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
