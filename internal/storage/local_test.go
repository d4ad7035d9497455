package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndRead(t *testing.T) {
	root := filepath.Join(t.TempDir(), "files")
	s := NewLocalStorage(root)

	path, err := s.Save([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, root, filepath.Dir(path), "content lives under the storage root")

	content, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)

	t.Run("random names never collide", func(t *testing.T) {
		other, err := s.Save([]byte("hello"))
		require.NoError(t, err)
		assert.NotEqual(t, path, other)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := s.Read(path + "-missing")
		assert.True(t, os.IsNotExist(err))
	})
}

func TestVariantPath(t *testing.T) {
	assert.Equal(t, "/tmp/files/abc_250", VariantPath("/tmp/files/abc", 250))
}
