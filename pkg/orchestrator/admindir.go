package orchestrator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

// controlTemplate is rendered with the exact placeholder names spec
// section 6 documents: ARCHITECTURE, MAINTAINER.NAME, MAINTAINER.EMAIL,
// DISTRIBUTION.
const controlTemplate = `Architecture: {{ARCHITECTURE}}
Maintainer: {{MAINTAINER.NAME}} <{{MAINTAINER.EMAIL}}>
Distribution: {{DISTRIBUTION}}
`

func renderControlTemplate(arch, distribution, maintainerName, maintainerEmail string) string {
	replacer := strings.NewReplacer(
		"{{ARCHITECTURE}}", arch,
		"{{MAINTAINER.NAME}}", maintainerName,
		"{{MAINTAINER.EMAIL}}", maintainerEmail,
		"{{DISTRIBUTION}}", distribution,
	)

	return replacer.Replace(controlTemplate)
}

// CreateAdmindir renders the control-file template, creates
// "<targetRoot>/<arch>", invokes "PKGTOOL --create-admindir", and finally
// writes an empty sources.list to forestall later update/upgrade errors.
func (o *Orchestrator) CreateAdmindir(ctx context.Context, arch, distribution, targetRoot string) error {
	distribution = o.effectiveDistribution(distribution)

	rendered := renderControlTemplate(arch, distribution, o.cfg.Maintainer.Name, o.cfg.Maintainer.Email)

	controlFile := filepath.Join(o.cfg.TempDir, "wpkg-admindir-control-"+arch)
	if err := fsutil.WriteFileString(controlFile, rendered); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "writing admindir control template")
	}

	targetArch := o.targetArchRoot(targetRoot, arch)
	if err := fsutil.ExistsMakeDir(targetArch); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "creating target root")
	}

	if _, err := o.runOK(ctx, "--create-admindir", toolrunner.Invocation{
		Args:    []string{"--create-admindir", "--root", targetArch},
		LastArg: controlFile,
	}); err != nil {
		return err
	}

	sourcesList := o.admindirSourcesList(targetRoot, arch)
	if fsutil.Exists(sourcesList) {
		return nil
	}

	if err := fsutil.WriteFileString(sourcesList, ""); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "creating empty sources.list")
	}

	return nil
}
