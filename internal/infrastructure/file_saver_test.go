package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSaver_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	saver := NewFileSaver(dir, nil)

	path, err := saver.Save(context.Background(), "video.mp4", []byte("binary"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "video.mp4"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "binary", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileSaver_Save_Overwrites(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir, nil)

	_, err := saver.Save(context.Background(), "video.mp4", []byte("first"))
	require.NoError(t, err)
	path, err := saver.Save(context.Background(), "video.mp4", []byte("second"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestFileSaver_Save_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir, nil)

	path, err := saver.Save(context.Background(), "../../etc/video.mp4", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "video.mp4"), path)
}

func TestFileSaver_Save_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := saver.Save(ctx, "video.mp4", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "video.mp4"))
	assert.True(t, os.IsNotExist(statErr))
}
