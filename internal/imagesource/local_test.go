package imagesource

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSourceListsOnlyImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2023"), 0o755))
	for _, name := range []string{"2023/a.jpg", "2023/a.jpg.json", "b.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	src, err := NewLocal(dir)
	require.NoError(t, err)

	paths, err := src.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023/a.jpg", "b.png"}, paths)
}

func TestLocalSourceOpenAndExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("bytes"), 0o644))

	src, err := NewLocal(dir)
	require.NoError(t, err)

	ok, err := src.Exists(context.Background(), "photo.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = src.Exists(context.Background(), SidecarPath("photo.jpg"))
	require.NoError(t, err)
	assert.False(t, ok)

	r, err := src.Open(context.Background(), "photo.jpg")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("x.JPG"))
	assert.True(t, IsImageFile("x.heic"))
	assert.False(t, IsImageFile("x.jpg.json"))
	assert.False(t, IsImageFile("x.mp4"))
}

func TestNewLocalRejectsMissingDir(t *testing.T) {
	_, err := NewLocal("/does/not/exist")
	assert.Error(t, err)
}
