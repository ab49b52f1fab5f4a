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

func TestShowFields_IncludesDistributionScopedField(t *testing.T) {
	t.Parallel()

	fields := showFields("stable")
	assert.Contains(t, fields, "X-Craft-Packages-stable")
}

func TestShowFormatTemplate_BuildsJSONTemplate(t *testing.T) {
	t.Parallel()

	template := showFormatTemplate([]string{"Package", "Version"})
	assert.Equal(t, `{"Package":"${Package}","Version":"${Version}"}`, template)
}

func TestIsPublished_NotFoundBecomesFalse(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, idxCache := newTestOrchestrator(t, repo)
	seedIndexCache(t, idxCache, repo, nil)

	published, err := o.IsPublished(context.Background(), "foo", "amd64", repo, "stable")
	require.NoError(t, err)
	assert.False(t, published)
}

func TestIsPublished_FoundIsTrue(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, idxCache := newTestOrchestrator(t, repo)
	seedIndexCache(t, idxCache, repo, []index.IndexEntry{
		{Name: "foo", Version: "1.0", Arch: strPtr("amd64"), Distrib: strPtr("stable"), File: "stable/foo_1.0_amd64.deb"},
	})

	published, err := o.IsPublished(context.Background(), "foo", "amd64", repo, "stable")
	require.NoError(t, err)
	assert.True(t, published)
}

func TestPublish_CopiesArtifactAndSidecar(t *testing.T) {
	t.Parallel()

	inRepo := t.TempDir()
	outRepo := t.TempDir()

	o, idxCache := newTestOrchestrator(t, inRepo)
	seedIndexCache(t, idxCache, inRepo, []index.IndexEntry{
		{Name: "foo", Version: "1.0", Arch: strPtr("amd64"), Distrib: strPtr("stable"), File: "stable/foo_1.0_amd64.deb"},
	})

	require.NoError(t, fsutil.WriteFileString(filepath.Join(inRepo, "stable/foo_1.0_amd64.deb"), "binary"))
	require.NoError(t, fsutil.WriteFileString(filepath.Join(inRepo, "stable/foo_1.0_amd64.deb.md5sum"), "deadbeef"))

	err := o.Publish(context.Background(), "foo", "amd64", inRepo, outRepo, "stable")
	require.NoError(t, err)

	assert.True(t, fsutil.Exists(filepath.Join(outRepo, "stable", "foo_1.0_amd64.deb")))
	assert.True(t, fsutil.Exists(filepath.Join(outRepo, "stable", "foo_1.0_amd64.deb.md5sum")))
}

func TestUnpublish_RemovesArtifactAndSidecar(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, idxCache := newTestOrchestrator(t, repo)
	seedIndexCache(t, idxCache, repo, []index.IndexEntry{
		{Name: "foo", Version: "1.0", Arch: strPtr("amd64"), Distrib: strPtr("stable"), File: "stable/foo_1.0_amd64.deb"},
	})

	require.NoError(t, fsutil.WriteFileString(filepath.Join(repo, "stable/foo_1.0_amd64.deb"), "binary"))
	require.NoError(t, fsutil.WriteFileString(filepath.Join(repo, "stable/foo_1.0_amd64.deb.md5sum"), "deadbeef"))

	err := o.Unpublish(context.Background(), "foo", "amd64", repo, "stable", false)
	require.NoError(t, err)

	assert.False(t, fsutil.Exists(filepath.Join(repo, "stable/foo_1.0_amd64.deb")))
	assert.False(t, fsutil.Exists(filepath.Join(repo, "stable/foo_1.0_amd64.deb.md5sum")))
}
