package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v1"))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	require.NoError(t, m.Set(ctx, "k", "v2"))
	v, _, _ = m.Get(ctx, "k")
	assert.Equal(t, "v2", v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, m.Delete(ctx, "k"))
	require.NoError(t, m.Close())
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "a", "1"))
	require.NoError(t, f.Set(ctx, "b", "2"))
	require.NoError(t, f.Delete(ctx, "a"))
	require.NoError(t, f.Close())

	reopened, err := NewFile(path)
	require.NoError(t, err)

	_, ok, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := reopened.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestFile_CreatesParentDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "store.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "k", "v"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFile_RejectsCorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFile(path)
	assert.Error(t, err)
}

func TestFile_EmptyFileIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	f, err := NewFile(path)
	require.NoError(t, err)
	_, ok, err := f.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	kv, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open("", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open("file", filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	_, err = Open("cassandra", "")
	assert.Error(t, err)
}
