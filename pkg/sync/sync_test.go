package sync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/archive"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/cache"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/debversion"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/index"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
)

func TestSyncRepository_MissingRepoIsNoop(t *testing.T) {
	t.Parallel()

	runner := toolrunner.New("true", "")
	idxCache := cache.NewIndexCache()
	parser := index.New(runner, idxCache, debversion.Fake{}, "index.wpkg")
	mgr := archive.New(runner, parser, debversion.Fake{}, "index.wpkg")
	synchronizer := New(runner, mgr)

	err := synchronizer.SyncRepository(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
}

func TestSyncRepository_EmptyRepoRunsBothIndexPasses(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	require.NoError(t, fsutil.ExistsMakeDir(repo))

	runner := toolrunner.New("true", "")
	idxCache := cache.NewIndexCache()
	parser := index.New(runner, idxCache, debversion.Fake{}, "index.wpkg")
	mgr := archive.New(runner, parser, debversion.Fake{}, "index.wpkg")
	synchronizer := New(runner, mgr)

	err := synchronizer.SyncRepository(context.Background(), repo)
	require.NoError(t, err)
}

func TestSyncRepository_ArchivesDistributions(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	distDir := filepath.Join(repo, "foo")
	require.NoError(t, fsutil.WriteFileString(filepath.Join(distDir, "pkg_1.0_amd64.deb"), "content"))

	runner := toolrunner.New("true", "")
	idxCache := cache.NewIndexCache()

	indexPath := filepath.Join(repo, "index.wpkg")
	require.NoError(t, fsutil.WriteFileString(indexPath, "stub"))

	sha, err := fsutil.SHA256File(indexPath)
	require.NoError(t, err)

	idxCache.Put(sha, []index.IndexEntry{
		{Name: "pkg", Version: "1.0", CtrlDistribution: "foo", File: "foo/pkg_1.0_amd64.deb"},
	})

	parser := index.New(runner, idxCache, debversion.Fake{}, "index.wpkg")
	mgr := archive.New(runner, parser, debversion.Fake{}, "index.wpkg")
	synchronizer := New(runner, mgr)

	err = synchronizer.SyncRepository(context.Background(), repo)
	require.NoError(t, err)

	assert.True(t, fsutil.Exists(filepath.Join(distDir, "pkg_1.0_amd64.deb")))
}
