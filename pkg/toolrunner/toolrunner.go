// Package toolrunner spawns the external PKGTOOL/PKGGRAPH binaries the
// orchestrator wraps, streams their stdout line by line, and reports their
// exit code. It never parses binary package archives itself.
package toolrunner

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

var runnerLogger = logger.WithComponent("toolrunner")

// Invocation describes a single external-tool call.
type Invocation struct {
	// Args is the argument vector, in order, excluding the auto-prepended
	// --tmpdir pair.
	Args []string
	// LastArg, when non-empty, is appended after Args as the final
	// argument (the form most PKGTOOL subcommands expect their trailing
	// positional argument in).
	LastArg string
	// Dir, when non-empty, becomes the child process's working directory.
	Dir string
	// Env overlays the parent process environment; entries here win over
	// an identically-named inherited variable.
	Env map[string]string
	// OnLine, when set, is invoked once per stdout line, in order.
	OnLine func(line string)
	// ExcludeTempDir skips the automatic --tmpdir prefix, for tools (like
	// PKGGRAPH) that do not accept it.
	ExcludeTempDir bool
}

// Result carries everything callers need after a completed invocation.
type Result struct {
	ExitCode int
	Lines    []string
}

// Runner spawns one named external binary (PKGTOOL, or the PKGGRAPH
// variant) using a shared short-path temp directory alias.
type Runner struct {
	// ToolPath is the binary name or absolute path to invoke.
	ToolPath string
	// TempDir is the long-form temp directory whose short alias is
	// prepended via --tmpdir.
	TempDir string
}

// New creates a Runner for the named external tool.
func New(toolPath, tempDir string) *Runner {
	return &Runner{ToolPath: toolPath, TempDir: tempDir}
}

// Run executes the invocation and returns its exit code. A non-nil error is
// returned only when the process could not be spawned or its stdout/stderr
// streams could not be drained; a non-zero exit code is reported via
// Result.ExitCode, not via the error return.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	args := make([]string, 0, len(inv.Args)+3)

	if !inv.ExcludeTempDir && r.TempDir != "" {
		alias, err := ShortAlias(r.TempDir)
		if err != nil {
			return nil, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "failed to compute tmpdir alias")
		}

		args = append(args, "--tmpdir", alias)
	}

	args = append(args, inv.Args...)
	if inv.LastArg != "" {
		args = append(args, inv.LastArg)
	}

	cmd := exec.CommandContext(ctx, r.ToolPath, args...)
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}

	if len(inv.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), inv.Env)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "failed to open stdout pipe")
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "failed to open stderr pipe")
	}

	runnerLogger.Debug("spawning external tool", "tool", r.ToolPath, "args", args, "dir", inv.Dir)

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "failed to spawn "+r.ToolPath)
	}

	lines := make([]string, 0, 32)

	stdoutDone := make(chan struct{})

	go func() {
		defer close(stdoutDone)

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			lines = append(lines, line)

			if inv.OnLine != nil {
				inv.OnLine(line)
			}
		}
	}()

	stderrDone := make(chan struct{})

	go func() {
		defer close(stderrDone)

		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		for scanner.Scan() {
			runnerLogger.Warn(scanner.Text(), "tool", r.ToolPath)
		}
	}()

	<-stdoutDone
	<-stderrDone

	waitErr := cmd.Wait()
	duration := time.Since(start)

	exitCode := 0

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !asExitError(waitErr, &exitErr) {
			return nil, wpkgerrors.Wrap(waitErr, wpkgerrors.KindIOError, "failed to wait for "+r.ToolPath)
		}

		exitCode = exitErr.ExitCode()
	}

	runnerLogger.Debug("external tool completed",
		"tool", r.ToolPath, "exitCode", exitCode, "duration", duration)

	return &Result{ExitCode: exitCode, Lines: lines}, nil
}

func asExitError(err error, target **exec.ExitError) bool {
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}

	*target = exitErr

	return true
}

func mergeEnv(base []string, overlay map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overlay))

	for _, kv := range base {
		key := kv

		for i, r := range kv {
			if r == '=' {
				key = kv[:i]
				break
			}
		}

		if _, overridden := overlay[key]; overridden {
			continue
		}

		merged = append(merged, kv)
	}

	for k, v := range overlay {
		merged = append(merged, k+"="+v)
	}

	return merged
}
