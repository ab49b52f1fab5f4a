package orchestrator

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

// Publish resolves name from inRepo and copies its artifact (and, best
// effort, its md5sum sidecar) into "<outRepo>/<distribution>/", then
// synchronizes outRepo.
func (o *Orchestrator) Publish(ctx context.Context, name, arch, inRepo, outRepo, distribution string) error {
	distribution = o.effectiveDistribution(distribution)
	outRepo = o.effectiveRepo(outRepo)

	ref, err := o.resolve.LookForPackage(ctx, resolverLookup(name, arch, distribution, inRepo))
	if err != nil {
		return err
	}

	dst := filepath.Join(outRepo, distribution, filepath.Base(ref.File))
	if err := fsutil.CopyFile(ref.File, dst); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "publishing artifact")
	}

	sidecarSrc := ref.File + ".md5sum"
	if fsutil.Exists(sidecarSrc) {
		if err := fsutil.CopyFile(sidecarSrc, dst+".md5sum"); err != nil {
			logger.WithComponent("orchestrator").Warn("failed to publish md5sum sidecar",
				"file", sidecarSrc, "error", err)
		}
	}

	return o.syncer.SyncRepository(ctx, outRepo)
}

// Unpublish resolves name and removes its artifact (and sidecar, errors on
// the sidecar ignored) from repo, synchronizing only when updateIndex is
// set.
func (o *Orchestrator) Unpublish(ctx context.Context, name, arch, repo, distribution string, updateIndex bool) error {
	repo = o.effectiveRepo(repo)
	distribution = o.effectiveDistribution(distribution)

	ref, err := o.resolve.LookForPackage(ctx, resolverLookup(name, arch, distribution, repo))
	if err != nil {
		return err
	}

	if err := fsutil.RemoveIfExists(ref.File); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "unpublishing artifact")
	}

	_ = fsutil.RemoveIfExists(ref.File + ".md5sum")

	if !updateIndex {
		return nil
	}

	return o.syncer.SyncRepository(ctx, ref.Repository)
}

// IsPublished converts a not-found resolution into a plain false instead of
// an error, per spec section 7's error-handling policy.
func (o *Orchestrator) IsPublished(ctx context.Context, name, arch, repo, distribution string) (bool, error) {
	_, err := o.resolve.LookForPackage(ctx, resolverLookup(name, arch, distribution, repo))
	if err != nil {
		if wpkgerrors.IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// SyncRepository delegates to the RepositorySynchronizer.
func (o *Orchestrator) SyncRepository(ctx context.Context, repo string) error {
	return o.syncer.SyncRepository(ctx, repo)
}

// showFields are the control fields requested by "--show --showformat",
// fixed per spec section 4.7. The distribution-scoped field name is
// assembled verbatim from the caller-provided distribution, with no
// sanitization (spec section 9, open question 3).
func showFields(distribution string) []string {
	return []string{
		"Architecture", "Build-Depends", "Date", "Depends", "Distribution",
		"Package", "Version", "X-Craft-Build-Depends", "X-Craft-Make-Depends",
		"X-Craft-Packages-" + distribution, "X-Craft-Sub-Packages",
	}
}

func showFormatTemplate(fields []string) string {
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = `"` + field + `":"${` + field + `}"`
	}

	return "{" + strings.Join(parts, ",") + "}"
}

// Show resolves name (optionally pinned to an archived version) and
// returns its requested control fields as a JSON-decoded map, consulting
// and populating ShowCache by the artifact's md5sum.
func (o *Orchestrator) Show(ctx context.Context, name, arch, version, distribution string) (map[string]any, error) {
	distribution = o.effectiveDistribution(distribution)

	var file, hash string

	if version == "" {
		ref, err := o.resolve.LookForPackage(ctx, resolverLookup(name, arch, distribution, ""))
		if err != nil {
			return nil, err
		}

		file, hash = ref.File, ref.Hash
	} else {
		archived, err := o.archivedDebPath(name, version, arch, distribution)
		if err != nil {
			return nil, err
		}

		file = archived

		if sidecarHash, err := fsutil.ReadFileString(file + ".md5sum"); err == nil {
			hash = strings.TrimSpace(sidecarHash)
		}
	}

	if hash != "" {
		if cached, ok := o.showCache.Get(hash); ok {
			if parsed, ok := cached.(map[string]any); ok {
				return parsed, nil
			}
		}
	}

	template := showFormatTemplate(showFields(distribution))

	result, err := o.runOK(ctx, "--show", toolrunner.Invocation{
		Args:    []string{"--show", "--showformat", template},
		LastArg: file,
	})
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(strings.Join(result.Lines, "")), &parsed); err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindParseError, "parsing show output")
	}

	if hash != "" {
		o.showCache.Put(hash, parsed)
	}

	return parsed, nil
}
