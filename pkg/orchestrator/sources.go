package orchestrator

import (
	"context"
	"strconv"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

func (o *Orchestrator) readSourcesList(targetRoot, arch string) ([]string, error) {
	path := o.admindirSourcesList(targetRoot, arch)
	if !fsutil.Exists(path) {
		return nil, nil
	}

	content, err := fsutil.ReadFileString(path)
	if err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "reading sources.list")
	}

	return strings.Split(content, "\n"), nil
}

// AddSources reads "sources.list" directly instead of calling the tool's
// own "--list-sources" (which takes the admindir lock, spec section 5's
// "Shared resources" note). If sourceLine is already present, this is a
// no-op; otherwise it calls "PKGTOOL --add-sources".
func (o *Orchestrator) AddSources(ctx context.Context, sourceLine, arch, targetRoot string) error {
	lines, err := o.readSourcesList(targetRoot, arch)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == strings.TrimSpace(sourceLine) {
			return nil
		}
	}

	_, err = o.runOK(ctx, "--add-sources", toolrunner.Invocation{
		Args:    []string{"--add-sources", "--root", o.targetArchRoot(targetRoot, arch)},
		LastArg: sourceLine,
	})

	return err
}

// RemoveSources reads "sources.list" directly, finds sourceLine's 1-based
// line index, and calls "PKGTOOL --remove-sources <index>". A missing
// entry is a no-op.
func (o *Orchestrator) RemoveSources(ctx context.Context, sourceLine, arch, targetRoot string) error {
	lines, err := o.readSourcesList(targetRoot, arch)
	if err != nil {
		return err
	}

	lineIndex := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == strings.TrimSpace(sourceLine) {
			lineIndex = i + 1
			break
		}
	}

	if lineIndex == -1 {
		return nil
	}

	_, err = o.runOK(ctx, "--remove-sources", toolrunner.Invocation{
		Args: []string{"--remove-sources", strconv.Itoa(lineIndex), "--root", o.targetArchRoot(targetRoot, arch)},
	})

	return err
}
