package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/index"
)

func TestGraph_SkipsUnresolvedNames(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, idxCache := newTestOrchestrator(t, repo)
	seedIndexCache(t, idxCache, repo, []index.IndexEntry{
		{Name: "foo", Version: "1.0", Arch: strPtr("amd64"), Distrib: strPtr("stable"), File: "stable/foo_1.0_amd64.deb"},
	})

	// "bar" resolves under neither probe and is skipped rather than
	// aborting the whole graph call.
	err := o.Graph(context.Background(), []string{"foo", "bar"}, "amd64", "stable")
	require.NoError(t, err)
}

func TestGraph_AllUnresolvedStillSucceeds(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	o, idxCache := newTestOrchestrator(t, repo)
	seedIndexCache(t, idxCache, repo, nil)

	err := o.Graph(context.Background(), []string{"nope"}, "amd64", "stable")
	require.NoError(t, err)
}
