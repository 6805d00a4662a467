package fhe_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orion-protocol/orion-fhe/internal/fhe"
	"github.com/orion-protocol/orion-fhe/internal/keystore"
)

// Full lifecycle: generate, persist both halves, load the client key back as
// a later process would, encrypt, and round-trip the ciphertext blob.
func TestKeyLifecycleEndToEnd(t *testing.T) {
	dir := t.TempDir()
	clientPath := filepath.Join(dir, "fheClientKey.hex")
	serverPath := filepath.Join(dir, "fheServerKey.hex")

	kp := testPair(t)

	clientBlob, err := fhe.Marshal(kp.ClientKey)
	require.NoError(t, err)
	serverBlob, err := fhe.Marshal(kp.ServerKey)
	require.NoError(t, err)
	require.NoError(t, keystore.Save(clientPath, clientBlob))
	require.NoError(t, keystore.Save(serverPath, serverBlob))

	// Separate-invocation half: nothing reused but the files.
	loadedBlob, err := keystore.Load(clientPath)
	require.NoError(t, err)
	require.Equal(t, clientBlob, loadedBlob)

	ck, err := fhe.LoadClientKey(loadedBlob)
	require.NoError(t, err)

	ct, err := fhe.Encrypt8(ck, 200)
	require.NoError(t, err)
	ctBlob, err := fhe.Marshal(ct)
	require.NoError(t, err)

	restored, err := fhe.UnmarshalCiphertext8(ctBlob)
	require.NoError(t, err)
	v, err := fhe.Decrypt8(ck, restored)
	require.NoError(t, err)
	require.Equal(t, uint8(200), v)

	// The stored server key must still deserialize for the evaluating party.
	srvBlob, err := keystore.Load(serverPath)
	require.NoError(t, err)
	_, err = fhe.UnmarshalServerKey(srvBlob)
	require.NoError(t, err)
}
