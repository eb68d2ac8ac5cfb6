// filepath: internal/storage/storage_test.go
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndCopyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.db")

	n, err := SaveFile(strings.NewReader("hello"), path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	var buf bytes.Buffer
	n, err = CopyFile(&buf, path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "hello", buf.String())

	_, err = CopyFile(&buf, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestReplaceAndRemoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	require.NoError(t, ReplaceFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.NoFileExists(t, src)

	require.NoError(t, RemoveFile(dst))
	require.NoError(t, RemoveFile(dst), "removing a missing file is not an error")
}

func TestBackupPaths(t *testing.T) {
	dir := t.TempDir()

	p, err := NewBackupPath(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(p))
	assert.True(t, IsBackupName(filepath.Base(p)))

	assert.False(t, IsBackupName("pantry_data.db"))
	assert.False(t, IsBackupName("pantry_data-notaulid.db"))
	assert.False(t, IsBackupName("other-01ARZ3NDEKTSV4RRFFQ69G5FAV.db"))

	up := UploadPath("/data/pantry_data.db")
	assert.True(t, strings.HasPrefix(up, "/data/pantry_data.db.upload-"))
	assert.NotEqual(t, up, UploadPath("/data/pantry_data.db"))
	assert.Equal(t, "/data/pantry_data.db.lock", LockPath("/data/pantry_data.db"))

	_, err = safeJoin(dir, "../escape.db")
	assert.Error(t, err)
}

func TestListBackups(t *testing.T) {
	dir := t.TempDir()

	backups, err := ListBackups(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, backups)

	// 1. Two backups with distinct ages plus unrelated files
	older, err := NewBackupPath(dir)
	require.NoError(t, err)
	newer, err := NewBackupPath(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(newer, []byte("22"), 0644))
	require.NoError(t, os.WriteFile(older, []byte("1"), 0644))
	require.NoError(t, os.Chtimes(older, time.Now().Add(-48*time.Hour), time.Now().Add(-48*time.Hour)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pantry_data-sub.db"), 0755))

	// 2. Oldest first, unrelated entries ignored
	backups, err = ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, older, backups[0].Path)
	assert.Equal(t, int64(1), backups[0].SizeBytes)
	assert.Equal(t, newer, backups[1].Path)
}
