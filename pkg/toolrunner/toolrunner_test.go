package toolrunner

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CapturesStdoutLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a posix shell")
	}

	runner := New("sh", t.TempDir())

	var viaCallback []string

	result, err := runner.Run(context.Background(), Invocation{
		Args:           []string{"-c", "echo one; echo two"},
		ExcludeTempDir: true,
		OnLine: func(line string) {
			viaCallback = append(viaCallback, line)
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, []string{"one", "two"}, result.Lines)
	assert.Equal(t, []string{"one", "two"}, viaCallback)
}

func TestRun_ReportsNonZeroExitWithoutError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a posix shell")
	}

	runner := New("sh", t.TempDir())

	result, err := runner.Run(context.Background(), Invocation{
		Args:           []string{"-c", "exit 7"},
		ExcludeTempDir: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, result.ExitCode)
}

func TestRun_SpawnFailureIsAnError(t *testing.T) {
	runner := New(filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir())

	_, err := runner.Run(context.Background(), Invocation{ExcludeTempDir: true})
	require.Error(t, err)
}

func TestRun_PrependsTmpdirAlias(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a posix shell")
	}

	tempDir := t.TempDir()
	runner := New("echo", tempDir)

	result, err := runner.Run(context.Background(), Invocation{
		Args: []string{"rest"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)

	alias, err := ShortAlias(tempDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"--tmpdir " + alias + " rest"}, result.Lines)
}

func TestShortAlias_StableAndIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	first, err := ShortAlias(tempDir)
	require.NoError(t, err)

	second, err := ShortAlias(tempDir)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	target, err := filepath.EvalSymlinks(first)
	require.NoError(t, err)

	resolvedTemp, err := filepath.EvalSymlinks(tempDir)
	require.NoError(t, err)
	assert.Equal(t, resolvedTemp, target)
}
