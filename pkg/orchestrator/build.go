package orchestrator

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

// archFromPath derives the build architecture as the second-to-last path
// component of packagePath, the convention spec section 4.7's build
// contract documents.
func archFromPath(packagePath string) string {
	clean := filepath.Clean(packagePath)
	parent := filepath.Dir(clean)

	return filepath.Base(parent)
}

func (o *Orchestrator) buildArgs(repo string) []string {
	args := []string{
		"--build",
		"--repository", repo,
		"--output-repository-dir", repo,
		"--compressor", o.cfg.Compressor,
		"--zlevel", strconv.Itoa(o.cfg.CompressionLevel),
		"--install-prefix", o.cfg.InstallPrefix,
		"--cmake-generator", o.cfg.CMakeGenerator,
		"--make-tool", o.cfg.MakeTool,
	}

	for _, exception := range o.cfg.BuildExceptions {
		args = append(args, "--exception", exception)
	}

	return args
}

// Build implements spec section 4.7's build(packagePath, outRepo?,
// distribution?) for a binary build: arch is derived from packagePath,
// --root is passed only when the matching target-root/arch directory
// exists, and the effective repository is synchronized after a successful
// build.
func (o *Orchestrator) Build(ctx context.Context, packagePath, outRepo, distribution string) error {
	repo := o.effectiveRepo(outRepo)
	arch := archFromPath(packagePath)

	args := o.buildArgs(repo)

	targetArch := o.targetArchRoot("", arch)
	if fsutil.Exists(targetArch) {
		args = append(args, "--root", targetArch)
	}

	if _, err := o.runOK(ctx, "--build", toolrunner.Invocation{
		Args:    args,
		LastArg: packagePath,
	}); err != nil {
		return err
	}

	return o.syncer.SyncRepository(ctx, repo)
}

// BuildSrc implements the source-package variant: PKGTOOL is invoked with
// packagePath as its working directory instead of as a positional argument.
// Using exec.Cmd's Dir field means the orchestrator process itself never
// changes its own working directory, so there is nothing to restore.
func (o *Orchestrator) BuildSrc(ctx context.Context, packagePath, outRepo, distribution string) error {
	repo := o.effectiveRepo(outRepo)
	arch := archFromPath(packagePath)

	args := o.buildArgs(repo)

	targetArch := o.targetArchRoot("", arch)
	if fsutil.Exists(targetArch) {
		args = append(args, "--root", targetArch)
	}

	if _, err := o.runOK(ctx, "--build", toolrunner.Invocation{
		Args: args,
		Dir:  packagePath,
	}); err != nil {
		return err
	}

	return o.syncer.SyncRepository(ctx, repo)
}

// BuildFromSrc implements buildFromSrc(name?, arch, repo?, distribution?).
// With no name, the entire "<repo>/sources/" tree is built: every immediate
// subdirectory is treated as one source package. With a name, the matching
// "<name>-src" package is confirmed present in the repository's index
// before its source directory is built, per spec section 4.7's "Resolver-
// locate the -src package and build that".
func (o *Orchestrator) BuildFromSrc(ctx context.Context, name, arch, repo, distribution string) error {
	repo = o.effectiveRepo(repo)
	distribution = o.effectiveDistribution(distribution)

	sourcesDir := filepath.Join(repo, "sources")

	if name == "" {
		if !fsutil.Exists(sourcesDir) {
			return wpkgerrors.NotFound("nothing-to-build: no sources directory in " + repo).
				WithContext("reason", "nothing-to-build")
		}

		subdirs, err := fsutil.ListSubdirs(sourcesDir)
		if err != nil {
			return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "listing source packages")
		}

		if len(subdirs) == 0 {
			return wpkgerrors.NotFound("nothing-to-build: " + sourcesDir + " is empty").
				WithContext("reason", "nothing-to-build")
		}

		for _, subdir := range subdirs {
			if err := o.BuildSrc(ctx, filepath.Join(sourcesDir, subdir), repo, distribution); err != nil {
				return err
			}
		}

		return nil
	}

	srcName := name
	if !strings.HasSuffix(srcName, "-src") {
		srcName += "-src"
	}

	if _, err := o.resolve.LookForPackage(ctx, resolverLookup(srcName, arch, "sources", repo)); err != nil {
		return err
	}

	return o.BuildSrc(ctx, filepath.Join(sourcesDir, srcName), repo, distribution)
}
