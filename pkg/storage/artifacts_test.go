package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store := NewArtifactStore(dir)

	data := []byte("GF(2^4) Tables\n")
	path, digest, err := store.Save("table1.txt", data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "table1.txt"), path)
	assert.Len(t, digest, 64)
	assert.True(t, store.Exists("table1.txt"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePermissions), info.Mode().Perm())

	sidecar, err := os.ReadFile(path + ".b2sum")
	require.NoError(t, err)
	assert.Equal(t, digest+"  table1.txt\n", string(sidecar))

	loaded, err := store.Load("table1.txt")
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func TestArtifactStoreTamper(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	path, _, err := store.Save("table2.txt", []byte("63 7C 77 7B"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("63 7C 77 7C"), FilePermissions))

	_, err = store.Load("table2.txt")
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestArtifactStoreDelete(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	_, _, err := store.Save("inverse.txt", []byte("0 1 12 8"))
	require.NoError(t, err)

	require.NoError(t, store.Delete("inverse.txt"))
	assert.False(t, store.Exists("inverse.txt"))
	assert.NoError(t, store.Delete("inverse.txt"))

	_, err = store.Load("inverse.txt")
	assert.Error(t, err)
}

func TestArtifactStoreInvalidName(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	for _, name := range []string{"", ".", "..", "../escape.txt", "sub/dir.txt"} {
		_, _, err := store.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidName, "name=%q", name)
		assert.False(t, store.Exists(name))
	}
}
