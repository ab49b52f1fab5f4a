package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsAndExistsMakeDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")

	assert.False(t, Exists(nested))
	require.NoError(t, ExistsMakeDir(nested))
	assert.True(t, Exists(nested))
}

func TestListDirAndListSubdirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, ExistsMakeDir(filepath.Join(dir, "stable")))
	require.NoError(t, WriteFileString(filepath.Join(dir, "index.wpkg"), "{}"))

	entries, err := ListDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"stable", "index.wpkg"}, entries)

	subdirs, err := ListSubdirs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"stable"}, subdirs)
}

func TestListDir_MissingIsEmptyNotError(t *testing.T) {
	t.Parallel()

	entries, err := ListDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCopyAndMoveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "pkg_1.0-1_amd64.deb")
	require.NoError(t, WriteFileString(src, "binary content"))

	dst := filepath.Join(dir, "archive", "pkg", "1.0-1", "pkg_1.0-1_amd64.deb")
	require.NoError(t, CopyFile(src, dst))
	assert.True(t, Exists(src))
	assert.True(t, Exists(dst))

	moved := filepath.Join(dir, "moved.deb")
	require.NoError(t, MoveFile(dst, moved))
	assert.False(t, Exists(dst))
	assert.True(t, Exists(moved))
}

func TestRemoveIfExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sidecar.md5sum")

	// Benign when absent.
	require.NoError(t, RemoveIfExists(path))

	require.NoError(t, WriteFileString(path, "abc"))
	require.NoError(t, RemoveIfExists(path))
	assert.False(t, Exists(path))
}

func TestReadWriteJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.json")

	type catalog struct {
		Latest string `json:"latest"`
	}

	require.NoError(t, WriteJSON(path, catalog{Latest: "1.0"}))

	var got catalog
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, "1.0", got.Latest)
}

func TestMD5FileAndSHA256File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pkg_1.0_amd64.deb")
	require.NoError(t, WriteFileString(path, "content"))

	md5sum, err := MD5File(path)
	require.NoError(t, err)
	assert.Len(t, md5sum, 32)

	sha, err := SHA256File(path)
	require.NoError(t, err)
	assert.Len(t, sha, 64)
}
