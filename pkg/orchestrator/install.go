package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/archive"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/resolver"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

// InstallOptions carries install's recognized options, per spec section
// 9's "typed parameter structs" design note.
type InstallOptions struct {
	Name         string
	Version      string
	Arch         string
	Distribution string
	TargetRoot   string
	Reinstall    bool
}

func (o *Orchestrator) installFile(ctx context.Context, file, arch, targetRoot string, reinstall bool) error {
	args := []string{"--install", "--root", o.targetArchRoot(targetRoot, arch)}
	if !reinstall {
		args = append(args, "--skip-same-version")
	}

	_, err := o.runOK(ctx, "--install", toolrunner.Invocation{
		Args:    args,
		LastArg: file,
	})

	return err
}

// Install resolves opts to a DebRef from the live repository and calls
// "PKGTOOL --install", passing "--skip-same-version" unless Reinstall is
// set.
func (o *Orchestrator) Install(ctx context.Context, opts InstallOptions) error {
	ref, err := o.resolve.LookForPackage(ctx, resolver.Lookup{
		Name:         opts.Name,
		Version:      opts.Version,
		ArchRoot:     opts.Arch,
		Distribution: opts.Distribution,
	})
	if err != nil {
		return err
	}

	return o.installFile(ctx, ref.File, ref.Arch, opts.TargetRoot, opts.Reinstall)
}

// InstallByName is Install with only a name, architecture and distribution,
// the common shorthand case.
func (o *Orchestrator) InstallByName(ctx context.Context, name, arch, distribution string) error {
	return o.Install(ctx, InstallOptions{Name: name, Arch: arch, Distribution: distribution})
}

// InstallFromArchive installs a specific archived version of a package
// instead of whatever is currently live in the repository.
func (o *Orchestrator) InstallFromArchive(ctx context.Context, opts InstallOptions) error {
	file, err := o.archivedDebPath(opts.Name, opts.Version, opts.Arch, o.effectiveDistribution(opts.Distribution))
	if err != nil {
		return err
	}

	return o.installFile(ctx, file, opts.Arch, opts.TargetRoot, opts.Reinstall)
}

func (o *Orchestrator) archivedDebPath(name, version, arch, distribution string) (string, error) {
	archiveRoot := archive.ArchiveRootFor(o.cfg.RepoRoot)

	fileName := fmt.Sprintf("%s_%s_%s.deb", name, version, arch)
	if arch == "" {
		fileName = fmt.Sprintf("%s_%s.deb", name, version)
	}

	file := filepath.Join(archiveRoot, distribution, name, version, fileName)
	if !fsutil.Exists(file) {
		return "", wpkgerrors.NotFound("archived package not found: " + file).
			WithContext("name", name).WithContext("version", version)
	}

	return file, nil
}

// IsInstalled calls "PKGTOOL --is-installed"; the exit code alone decides
// the boolean result, no stdout parsing is needed.
func (o *Orchestrator) IsInstalled(ctx context.Context, name, arch, targetRoot string) (bool, error) {
	result, err := o.runner.Run(ctx, toolrunner.Invocation{
		Args:    []string{"--is-installed", "--root", o.targetArchRoot(targetRoot, arch)},
		LastArg: name,
	})
	if err != nil {
		return false, wpkgerrors.Wrap(err, wpkgerrors.KindToolFailed, "--is-installed")
	}

	return result.ExitCode == 0, nil
}

// Fields calls "PKGTOOL --field <name> <f1> <f2>…" and zips the requested
// field names with the tool's one-value-per-line stdout.
func (o *Orchestrator) Fields(ctx context.Context, name, arch, targetRoot string, fieldNames []string) (map[string]string, error) {
	args := append([]string{"--field", name}, fieldNames...)
	args = append(args, "--root", o.targetArchRoot(targetRoot, arch))

	result, err := o.runOK(ctx, "--field", toolrunner.Invocation{Args: args})
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(fieldNames))

	for i, fieldName := range fieldNames {
		if i < len(result.Lines) {
			out[fieldName] = result.Lines[i]
		}
	}

	return out, nil
}

// Remove calls "PKGTOOL --remove <name>".
func (o *Orchestrator) Remove(ctx context.Context, name, arch, targetRoot string) error {
	_, err := o.runOK(ctx, "--remove", toolrunner.Invocation{
		Args:    []string{"--remove", "--root", o.targetArchRoot(targetRoot, arch)},
		LastArg: name,
	})

	return err
}

// Autoremove calls "PKGTOOL --autoremove".
func (o *Orchestrator) Autoremove(ctx context.Context, arch, targetRoot string) error {
	_, err := o.runOK(ctx, "--autoremove", toolrunner.Invocation{
		Args: []string{"--autoremove", "--root", o.targetArchRoot(targetRoot, arch)},
	})

	return err
}

// Selection enumerates the values PKGTOOL accepts for --set-selection.
type Selection string

const (
	SelectionAuto   Selection = "auto"
	SelectionNormal Selection = "normal"
	SelectionHold   Selection = "hold"
	SelectionReject Selection = "reject"
)

// SetSelection calls "PKGTOOL --set-selection <selection> <name>".
func (o *Orchestrator) SetSelection(ctx context.Context, name, arch, targetRoot string, selection Selection) error {
	_, err := o.runOK(ctx, "--set-selection", toolrunner.Invocation{
		Args:    []string{"--set-selection", string(selection), "--root", o.targetArchRoot(targetRoot, arch)},
		LastArg: name,
	})

	return err
}
