// Package config stands in for the toolchain-configuration loader spec
// section 1 lists as an external collaborator: it supplies repository and
// target-root roots, the index filename, the default distribution name, the
// temp directory, and the build-tool defaults (CMake generator, make
// command). It is a plain struct registry, the same texture the upstream
// build tool uses for its own per-format configuration.
package config

import "runtime"

// Maintainer identifies the party rendered into admindir control file
// templates.
type Maintainer struct {
	Name  string
	Email string
}

// Config holds every orchestrator-wide setting.
type Config struct {
	// RepoRoot is the default package repository the orchestrator operates
	// on when a caller does not name one explicitly.
	RepoRoot string
	// TargetRoot is the default installation-root tree for install/remove.
	TargetRoot string
	// IndexFilename is the name of the top-level repository index file,
	// e.g. "index.wpkg".
	IndexFilename string
	// DefaultDistribution names the distribution subtree used when a
	// caller does not specify one.
	DefaultDistribution string
	// TempDir is the long-form scratch directory PKGTOOL invocations are
	// handed a short alias for.
	TempDir string
	// DefaultArch is the native architecture, in PKGTOOL's own naming
	// convention (amd64, arm64, …).
	DefaultArch string
	// Admindir is the name of the per-target metadata database directory
	// PKGTOOL manages under <target>/<arch>/var/lib/<admindir>.
	Admindir string
	// Maintainer is rendered into the admindir control file template.
	Maintainer Maintainer
	// CMakeGenerator names the CMake generator passed to binary builds.
	CMakeGenerator string
	// MakeTool names the make command passed to binary builds.
	MakeTool string
	// ToolName is the PKGTOOL binary name or path.
	ToolName string
	// GraphToolName is the PKGGRAPH binary name or path.
	GraphToolName string
	// Compressor and CompressionLevel are the default build-time archive
	// compression settings.
	Compressor       string
	CompressionLevel int
	// InstallPrefix is the default install prefix passed to binary builds.
	InstallPrefix string
	// BuildExceptions lists paths excluded from binary builds by default.
	BuildExceptions []string
}

// DefaultConfig returns a Config with the documented build-time defaults
// from the orchestrator's external-interfaces contract: zstd level 3
// compression, /usr install prefix, .gitignore/.gitattributes excluded, the
// platform-appropriate CMake generator, and "make" as the make tool.
func DefaultConfig() *Config {
	return &Config{
		IndexFilename:        "index.wpkg",
		DefaultDistribution:  "stable",
		Admindir:             "wpkg",
		CMakeGenerator:       DefaultCMakeGenerator(),
		MakeTool:             "make",
		ToolName:             "wpkg",
		GraphToolName:        "wpkg-graph",
		Compressor:           "zstd",
		CompressionLevel:     3,
		InstallPrefix:        "/usr",
		BuildExceptions:      []string{".gitignore", ".gitattributes"},
		DefaultArch:          DetectArch(),
	}
}

// DefaultCMakeGenerator mirrors the build tool's own platform rule: MSYS
// Makefiles on Windows, Unix Makefiles everywhere else.
func DefaultCMakeGenerator() string {
	if runtime.GOOS == "windows" {
		return "MSYS Makefiles"
	}

	return "Unix Makefiles"
}

// archMap translates Go's GOARCH into the Debian-style architecture names
// PKGTOOL expects.
var archMap = map[string]string{
	"amd64":   "amd64",
	"386":     "i386",
	"arm64":   "arm64",
	"arm":     "armhf",
	"ppc64":   "ppc64",
	"ppc64le": "ppc64el",
	"s390x":   "s390x",
	"riscv64": "riscv64",
	"mips":    "mips",
	"mipsle":  "mipsel",
}

// DetectArch returns the current machine's architecture in PKGTOOL's own
// naming convention, falling back to the raw GOARCH value when unmapped.
func DetectArch() string {
	if mapped, ok := archMap[runtime.GOARCH]; ok {
		return mapped
	}

	return runtime.GOARCH
}
