package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/archive"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

// CopyFromArchiving copies a specific archived version of a package back
// into a live repository's distribution directory, without touching the
// archive copy or re-synchronizing.
func (o *Orchestrator) CopyFromArchiving(ctx context.Context, name, version, arch, distribution, destRepo string) error {
	distribution = o.effectiveDistribution(distribution)

	src, err := o.archivedDebPath(name, version, arch, distribution)
	if err != nil {
		return err
	}

	dst := filepath.Join(o.effectiveRepo(destRepo), distribution, filepath.Base(src))
	if err := fsutil.CopyFile(src, dst); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "copying archived artifact")
	}

	if fsutil.Exists(src + ".md5sum") {
		_ = fsutil.CopyFile(src+".md5sum", dst+".md5sum")
	}

	return nil
}

// MoveArchive relocates an archived version's entire directory from one
// archive distribution to another — the manual counterpart to the
// specialized-distribution ("+") redirect ArchiveManager applies
// automatically during a sweep — and refreshes both distributions'
// per-package catalogs.
func (o *Orchestrator) MoveArchive(ctx context.Context, name, version, fromDistribution, toDistribution, repo string) error {
	archiveRoot := archive.ArchiveRootFor(o.effectiveRepo(repo))

	fromDistDir := filepath.Join(archiveRoot, fromDistribution)
	toDistDir := filepath.Join(archiveRoot, toDistribution)

	src := filepath.Join(fromDistDir, name, version)
	dst := filepath.Join(toDistDir, name, version)

	if !fsutil.Exists(src) {
		return wpkgerrors.NotFound("archived version not found: " + src)
	}

	entries, err := fsutil.ListDir(src)
	if err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "listing archived version directory")
	}

	for _, entry := range entries {
		if err := fsutil.MoveFile(filepath.Join(src, entry), filepath.Join(dst, entry)); err != nil {
			return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "moving archived artifact")
		}
	}

	_ = fsutil.RemoveIfExists(src)

	if err := o.archiveMg.RefreshCatalog(ctx, fromDistDir, name); err != nil {
		return err
	}

	return o.archiveMg.RefreshCatalog(ctx, toDistDir, name)
}

// ListArchiveVersions lists every full version archived for name under
// distribution.
func (o *Orchestrator) ListArchiveVersions(ctx context.Context, name, distribution, repo string) ([]string, error) {
	distribution = o.effectiveDistribution(distribution)
	archiveRoot := archive.ArchiveRootFor(o.effectiveRepo(repo))

	versions, err := fsutil.ListSubdirs(filepath.Join(archiveRoot, distribution, name))
	if err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "listing archived versions")
	}

	return versions, nil
}

// GetArchiveLatestVersion reads "<name>/index.json" and returns the full
// version string the top-level "latest" base points at.
func (o *Orchestrator) GetArchiveLatestVersion(ctx context.Context, name, distribution, repo string) (string, error) {
	distribution = o.effectiveDistribution(distribution)
	archiveRoot := archive.ArchiveRootFor(o.effectiveRepo(repo))
	catalogPath := filepath.Join(archiveRoot, distribution, name, "index.json")

	raw := make(map[string]any)
	if err := fsutil.ReadJSON(catalogPath, &raw); err != nil {
		return "", wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "reading archive catalog")
	}

	topLatest, ok := raw["latest"].(string)
	if !ok {
		return "", wpkgerrors.New(wpkgerrors.KindInvariantViolation, "archive catalog missing top-level latest")
	}

	baseEntryRaw, ok := raw[topLatest].(map[string]any)
	if !ok {
		return "", wpkgerrors.New(wpkgerrors.KindInvariantViolation, "archive catalog missing base entry "+topLatest)
	}

	fullVersion, ok := baseEntryRaw["latest"].(string)
	if !ok {
		return "", wpkgerrors.New(wpkgerrors.KindInvariantViolation, "archive catalog base entry missing latest")
	}

	return fullVersion, nil
}
