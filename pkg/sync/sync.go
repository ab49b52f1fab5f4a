// Package sync implements the RepositorySynchronizer component: the
// two-pass index/archive cycle run after every mutating operation (build,
// publish, unpublish).
package sync

import (
	"context"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/archive"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

var syncLogger = logger.WithComponent("sync")

// Synchronizer runs the create-index -> archive -> create-index cycle.
type Synchronizer struct {
	runner  *toolrunner.Runner
	archive *archive.Manager
}

// New builds a Synchronizer.
func New(runner *toolrunner.Runner, archiveManager *archive.Manager) *Synchronizer {
	return &Synchronizer{runner: runner, archive: archiveManager}
}

// SyncRepository implements spec section 4.6's syncRepository state
// machine: it swallows a top-level ENOENT (an empty or not-yet-created
// repository) and surfaces anything else.
func (s *Synchronizer) SyncRepository(ctx context.Context, repo string) error {
	if !fsutil.Exists(repo) {
		syncLogger.Debug("repository does not exist, nothing to sync", "repository", repo)
		return nil
	}

	distributions, err := fsutil.ListSubdirs(repo)
	if err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "listing repository distributions")
	}

	if err := s.createIndex(ctx, repo); err != nil {
		return err
	}

	for _, distribution := range distributions {
		if err := s.archive.ArchiveDistribution(ctx, repo, distribution); err != nil {
			return err
		}
	}

	return s.createIndex(ctx, repo)
}

func (s *Synchronizer) createIndex(ctx context.Context, repo string) error {
	result, err := s.runner.Run(ctx, toolrunner.Invocation{
		Args: []string{"--create-index", "--repository", repo, "--recursive", "--depth", "1"},
	})
	if err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindToolFailed, "creating repository index")
	}

	if result.ExitCode != 0 {
		return wpkgerrors.ToolFailed("PKGTOOL --create-index", result.ExitCode, nil).
			WithContext("repository", repo)
	}

	return nil
}
