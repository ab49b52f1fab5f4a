// Package debversion wraps the external Debian-style version comparator
// spec section 1 explicitly keeps out of scope ("Reimplementing …version
// arithmetic" is a Non-goal). It defines the narrow interface the rest of
// the orchestrator depends on and one production implementation that shells
// out to PKGTOOL's own "--compare-versions a '>' b" form.
package debversion

import (
	"context"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

// Comparator reports strict greater-than between two version strings. No
// implementation in this module parses or computes version ordering itself;
// every real answer is deferred to the external tool.
type Comparator interface {
	GreaterThan(ctx context.Context, a, b string) (bool, error)
}

// ToolComparator drives PKGTOOL's "--compare-versions" subcommand.
type ToolComparator struct {
	runner *toolrunner.Runner
}

// NewToolComparator creates a Comparator backed by the given ToolRunner.
func NewToolComparator(runner *toolrunner.Runner) *ToolComparator {
	return &ToolComparator{runner: runner}
}

// GreaterThan shells out to `PKGTOOL --compare-versions a '>' b`; a zero
// exit code means the relation holds.
func (c *ToolComparator) GreaterThan(ctx context.Context, a, b string) (bool, error) {
	result, err := c.runner.Run(ctx, toolrunner.Invocation{
		Args:           []string{"--compare-versions", a, ">", b},
		ExcludeTempDir: true,
	})
	if err != nil {
		return false, wpkgerrors.Wrap(err, wpkgerrors.KindToolFailed, "version comparison failed")
	}

	return result.ExitCode == 0, nil
}

// Max returns the greatest version in versions under cmp's ordering. It
// panics on an empty slice; callers are expected to guard that themselves
// the way ArchiveManager and the IndexParser's greater-mode reduction do.
func Max(ctx context.Context, cmp Comparator, versions []string) (string, error) {
	greatest := versions[0]

	for _, candidate := range versions[1:] {
		isGreater, err := cmp.GreaterThan(ctx, candidate, greatest)
		if err != nil {
			return "", err
		}

		if isGreater {
			greatest = candidate
		}
	}

	return greatest, nil
}
