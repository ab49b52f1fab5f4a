// Package orchestrator composes every lower-level component (ToolRunner,
// IndexParser, Resolver, ArchiveManager, RepositorySynchronizer, the two
// caches) into the single high-level facade the rest of a toolchain build
// system calls into: build, install, remove, publish, show, graph, and the
// rest of the operations listed in the component design.
package orchestrator

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/archive"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/cache"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/config"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/debversion"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/index"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/resolver"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/sync"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

var orchLogger = logger.WithComponent("orchestrator")

// Orchestrator is the process-wide service composed of every lower-level
// component. Caches and tool runners live for the lifetime of the value;
// construct one per process (or per isolated unit of parallel work — the
// core is single-threaded cooperative per instance, see spec section 5).
type Orchestrator struct {
	cfg *config.Config

	runner      *toolrunner.Runner
	graphRunner *toolrunner.Runner

	indexCache *cache.IndexCache
	showCache  *cache.ShowCache

	cmp       debversion.Comparator
	parser    *index.Parser
	resolve   *resolver.Resolver
	archiveMg *archive.Manager
	syncer    *sync.Synchronizer
}

// New constructs an Orchestrator from cfg, wiring every component exactly
// once for the process lifetime.
func New(cfg *config.Config) *Orchestrator {
	runner := toolrunner.New(cfg.ToolName, cfg.TempDir)
	graphRunner := toolrunner.New(cfg.GraphToolName, cfg.TempDir)

	idxCache := cache.NewIndexCache()
	showCache := cache.NewShowCache()

	cmp := debversion.NewToolComparator(runner)
	parser := index.New(runner, idxCache, cmp, cfg.IndexFilename)

	res := resolver.New(parser, cfg.RepoRoot, cfg.DefaultArch, cfg.DefaultDistribution,
		func(string) string { return cfg.RepoRoot })

	archiveMg := archive.New(runner, parser, cmp, cfg.IndexFilename)
	syncer := sync.New(runner, archiveMg)

	return &Orchestrator{
		cfg:         cfg,
		runner:      runner,
		graphRunner: graphRunner,
		indexCache:  idxCache,
		showCache:   showCache,
		cmp:         cmp,
		parser:      parser,
		resolve:     res,
		archiveMg:   archiveMg,
		syncer:      syncer,
	}
}

func (o *Orchestrator) effectiveRepo(repo string) string {
	if repo != "" {
		return repo
	}

	return o.cfg.RepoRoot
}

func (o *Orchestrator) effectiveDistribution(distribution string) string {
	if distribution != "" {
		return distribution
	}

	return o.cfg.DefaultDistribution
}

func (o *Orchestrator) effectiveTargetRoot(targetRoot string) string {
	if targetRoot != "" {
		return targetRoot
	}

	return o.cfg.TargetRoot
}

func (o *Orchestrator) targetArchRoot(targetRoot, arch string) string {
	return filepath.Join(o.effectiveTargetRoot(targetRoot), arch)
}

func (o *Orchestrator) admindirSourcesList(targetRoot, arch string) string {
	return filepath.Join(o.targetArchRoot(targetRoot, arch), "var", "lib", o.cfg.Admindir, "core", "sources.list")
}

// runOK runs inv and converts a non-zero exit code into a KindToolFailed
// error; callers that need the captured stdout lines get the *Result back.
func (o *Orchestrator) runOK(ctx context.Context, op string, inv toolrunner.Invocation) (*toolrunner.Result, error) {
	result, err := o.runner.Run(ctx, inv)
	if err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindToolFailed, op)
	}

	if result.ExitCode != 0 {
		return result, wpkgerrors.ToolFailed(o.cfg.ToolName+" "+op, result.ExitCode, nil)
	}

	return result, nil
}

// TargetExists reports whether <targetRoot>/<arch> exists.
func (o *Orchestrator) TargetExists(targetRoot, arch string) bool {
	return fsutil.Exists(o.targetArchRoot(targetRoot, arch))
}

// IsV1Greater defers strict greater-than comparison to the external
// version-comparator; no version arithmetic is reimplemented in-process.
func (o *Orchestrator) IsV1Greater(ctx context.Context, v1, v2 string) (bool, error) {
	return o.cmp.GreaterThan(ctx, v1, v2)
}

// RemoveDatabaseLock wires the otherwise-unused "--remove-database-lock"
// form for operators recovering from a killed PKGTOOL invocation.
func (o *Orchestrator) RemoveDatabaseLock(ctx context.Context, arch, targetRoot string) error {
	_, err := o.runOK(ctx, "--remove-database-lock", toolrunner.Invocation{
		Args: []string{"--remove-database-lock", "--root", o.targetArchRoot(targetRoot, arch)},
	})

	return err
}

// dotOnPath reports whether Graphviz's "dot" binary is reachable, the
// signal Graph uses to decide whether to prepend "--skip-svg".
func dotOnPath() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}
