package archive

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/cache"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/debversion"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/index"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
)

func TestBaseVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.0", BaseVersion("1.0-2"))
	assert.Equal(t, "0.9", BaseVersion("0.9"))
}

// seedIndex writes a stub index file for repo and preloads the IndexCache
// so Manager.ctrlDistributions never needs a real PKGTOOL.
func seedIndex(t *testing.T, idxCache *cache.IndexCache, repo string, entries []index.IndexEntry) {
	t.Helper()

	indexPath := filepath.Join(repo, "index.wpkg")
	require.NoError(t, fsutil.WriteFileString(indexPath, repo))

	sha, err := fsutil.SHA256File(indexPath)
	require.NoError(t, err)

	idxCache.Put(sha, entries)
}

// TestArchiveDistribution_Collapse mirrors the archival-collapse scenario:
// three versions of one package in a distribution directory, after a sweep
// only the greatest remains live, the others (plus a back-linked copy of
// the greatest) land in the archive tree, and the archive's per-package
// catalog reflects both base versions.
func TestArchiveDistribution_Collapse(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	distDir := filepath.Join(repo, "foo")

	for _, f := range []string{"pkg_1.0-1_amd64.deb", "pkg_1.0-2_amd64.deb", "pkg_0.9_amd64.deb"} {
		require.NoError(t, fsutil.WriteFileString(filepath.Join(distDir, f), "content-of-"+f))
	}

	idxCache := cache.NewIndexCache()
	seedIndex(t, idxCache, repo, []index.IndexEntry{
		{Name: "pkg", Version: "1.0-1", CtrlDistribution: "foo", File: "foo/pkg_1.0-1_amd64.deb"},
		{Name: "pkg", Version: "1.0-2", CtrlDistribution: "foo", File: "foo/pkg_1.0-2_amd64.deb"},
		{Name: "pkg", Version: "0.9", CtrlDistribution: "foo", File: "foo/pkg_0.9_amd64.deb"},
	})

	parser := index.New(nil, idxCache, debversion.Fake{}, "index.wpkg")
	mgr := New(&toolrunner.Runner{ToolPath: "true"}, parser, debversion.Fake{}, "index.wpkg")

	require.NoError(t, mgr.ArchiveDistribution(context.Background(), repo, "foo"))

	remaining, err := fsutil.ListDir(distDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg_1.0-2_amd64.deb"}, remaining)

	archiveRoot := ArchiveRootFor(repo)
	assert.True(t, fsutil.Exists(filepath.Join(archiveRoot, "foo", "pkg", "1.0-1", "pkg_1.0-1_amd64.deb")))
	assert.True(t, fsutil.Exists(filepath.Join(archiveRoot, "foo", "pkg", "0.9", "pkg_0.9_amd64.deb")))
	assert.True(t, fsutil.Exists(filepath.Join(archiveRoot, "foo", "pkg", "1.0-2", "pkg_1.0-2_amd64.deb")))

	catalogPath := filepath.Join(archiveRoot, "foo", "pkg", "index.json")
	raw, err := fsutil.ReadFileString(catalogPath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "1.0", doc["latest"])

	base10, ok := doc["1.0"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1.0-2", base10["latest"])
}

func TestMoveToArchive_SameContentRemovesSourceWhenNotBackLinked(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	distDir := filepath.Join(repo, "foo")

	require.NoError(t, fsutil.WriteFileString(filepath.Join(distDir, "pkg_1.0_amd64.deb"), "same"))

	archiveRoot := ArchiveRootFor(repo)
	dst := filepath.Join(archiveRoot, "foo", "pkg", "1.0", "pkg_1.0_amd64.deb")
	require.NoError(t, fsutil.WriteFileString(dst, "same"))

	idxCache := cache.NewIndexCache()
	seedIndex(t, idxCache, repo, nil)
	parser := index.New(nil, idxCache, debversion.Fake{}, "index.wpkg")
	mgr := New(&toolrunner.Runner{ToolPath: "true"}, parser, debversion.Fake{}, "index.wpkg")

	err := mgr.moveToArchive(context.Background(), distDir, filepath.Join(archiveRoot, "foo"),
		debFile{Name: "pkg", Version: "1.0", Arch: "amd64", File: "pkg_1.0_amd64.deb"}, false)
	require.NoError(t, err)

	assert.False(t, fsutil.Exists(filepath.Join(distDir, "pkg_1.0_amd64.deb")))
}
