package orchestrator

import (
	"context"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
)

// List calls "PKGTOOL --list [pattern]", returning one installed package
// name per stdout line. An empty pattern lists everything.
func (o *Orchestrator) List(ctx context.Context, arch, targetRoot, pattern string) ([]string, error) {
	args := []string{"--list", "--root", o.targetArchRoot(targetRoot, arch)}

	inv := toolrunner.Invocation{Args: args}
	if pattern != "" {
		inv.LastArg = pattern
	}

	result, err := o.runOK(ctx, "--list", inv)
	if err != nil {
		return nil, err
	}

	return result.Lines, nil
}

// Search calls "PKGTOOL --search <pattern>".
func (o *Orchestrator) Search(ctx context.Context, arch, targetRoot, pattern string) ([]string, error) {
	result, err := o.runOK(ctx, "--search", toolrunner.Invocation{
		Args:    []string{"--search", "--root", o.targetArchRoot(targetRoot, arch)},
		LastArg: pattern,
	})
	if err != nil {
		return nil, err
	}

	return result.Lines, nil
}

// ListFiles calls "PKGTOOL --listfiles <name>".
func (o *Orchestrator) ListFiles(ctx context.Context, name, arch, targetRoot string) ([]string, error) {
	result, err := o.runOK(ctx, "--listfiles", toolrunner.Invocation{
		Args:    []string{"--listfiles", "--root", o.targetArchRoot(targetRoot, arch)},
		LastArg: name,
	})
	if err != nil {
		return nil, err
	}

	return result.Lines, nil
}

// Update calls "PKGTOOL --update".
func (o *Orchestrator) Update(ctx context.Context, arch, targetRoot string) error {
	_, err := o.runOK(ctx, "--update", toolrunner.Invocation{
		Args: []string{"--update", "--root", o.targetArchRoot(targetRoot, arch)},
	})

	return err
}

// Upgrade calls "PKGTOOL --upgrade".
func (o *Orchestrator) Upgrade(ctx context.Context, arch, targetRoot string) error {
	_, err := o.runOK(ctx, "--upgrade", toolrunner.Invocation{
		Args: []string{"--upgrade", "--root", o.targetArchRoot(targetRoot, arch)},
	})

	return err
}

// AddHooks calls "PKGTOOL --add-hooks <paths…>".
func (o *Orchestrator) AddHooks(ctx context.Context, arch, targetRoot string, paths []string) error {
	args := append([]string{"--add-hooks"}, paths...)
	args = append(args, "--root", o.targetArchRoot(targetRoot, arch))

	_, err := o.runOK(ctx, "--add-hooks", toolrunner.Invocation{Args: args})

	return err
}

// GetDebLocation resolves name to its artifact's absolute path, from the
// live repository when version is empty or from the version archive
// otherwise.
func (o *Orchestrator) GetDebLocation(ctx context.Context, name, arch, distribution, version string) (string, error) {
	distribution = o.effectiveDistribution(distribution)

	if version == "" {
		ref, err := o.resolve.LookForPackage(ctx, resolverLookup(name, arch, distribution, ""))
		if err != nil {
			return "", err
		}

		return ref.File, nil
	}

	return o.archivedDebPath(name, version, arch, distribution)
}
