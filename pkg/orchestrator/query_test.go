package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/index"
)

func TestGetDebLocation_LiveResolvesThroughResolver(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, idxCache := newTestOrchestrator(t, repo)
	seedIndexCache(t, idxCache, repo, []index.IndexEntry{
		{Name: "foo", Version: "1.0", Arch: strPtr("amd64"), Distrib: strPtr("stable"), File: "stable/foo_1.0_amd64.deb"},
	})

	loc, err := o.GetDebLocation(context.Background(), "foo", "amd64", "stable", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, "stable/foo_1.0_amd64.deb"), loc)
}

func TestGetDebLocation_ArchivedResolvesThroughArchivePath(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, _ := newTestOrchestrator(t, repo)

	archiveRoot := archiveRootForRepo(repo)
	debPath := filepath.Join(archiveRoot, "stable", "foo", "1.0", "foo_1.0_amd64.deb")
	require.NoError(t, fsutil.WriteFileString(debPath, "binary"))

	loc, err := o.GetDebLocation(context.Background(), "foo", "amd64", "stable", "1.0")
	require.NoError(t, err)
	assert.Equal(t, debPath, loc)
}

func TestList_EmptyPattern(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, _ := newTestOrchestrator(t, repo)

	names, err := o.List(context.Background(), "amd64", "", "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
