package orchestrator

import (
	"context"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

// Graph resolves each name to a ".deb" path (trying distribution first,
// then falling back to no distribution constraint) and invokes PKGGRAPH
// over the resulting path list. Names that resolve under neither probe are
// skipped rather than aborting the whole operation (spec section 9, open
// question 2). If Graphviz's "dot" is not on PATH, "--skip-svg" is
// prepended to the argument vector.
func (o *Orchestrator) Graph(ctx context.Context, names []string, arch, distribution string) error {
	files := make([]string, 0, len(names))

	for _, name := range names {
		ref, err := o.resolve.LookForPackage(ctx, resolverLookup(name, arch, distribution, ""))
		if err != nil {
			ref, err = o.resolve.LookForPackage(ctx, resolverLookup(name, arch, "", ""))
			if err != nil {
				orchLogger.Warn("graph: skipping unresolved package", "name", name)
				continue
			}
		}

		files = append(files, ref.File)
	}

	args := []string{"--verbose", "--root", o.targetArchRoot("", arch)}
	if !dotOnPath() {
		args = append([]string{"--skip-svg"}, args...)
	}

	args = append(args, files...)

	result, err := o.graphRunner.Run(ctx, toolrunner.Invocation{
		Args:           args,
		ExcludeTempDir: true,
	})
	if err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindToolFailed, "graph")
	}

	if result.ExitCode != 0 {
		return wpkgerrors.ToolFailed(o.cfg.GraphToolName, result.ExitCode, nil)
	}

	return nil
}
