// Package resolver implements the Resolver component: given a package name
// and a handful of optional constraints, it probes an ordered set of
// candidate repositories and assembles a fully-qualified DebRef descriptor.
package resolver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/index"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

var resolverLogger = logger.WithComponent("resolver")

// DebRef is a fully-qualified package descriptor, the result of a successful
// Resolver.LookForPackage call.
type DebRef struct {
	Name         string
	Version      string
	Arch         string
	Distribution string
	// File is the artifact's absolute path.
	File string
	// Repository is the repository root the artifact was found under.
	Repository string
	// Hash is the artifact's md5sum, read from its sidecar file when
	// present. Empty when no sidecar exists (benign, logged at debug).
	Hash string
	Ctrl struct {
		Distribution string
	}
}

// Lookup carries the optional constraints LookForPackage accepts.
type Lookup struct {
	Name         string
	Version      string
	ArchRoot     string
	Distribution string
	RepoPath     string
}

// Resolver resolves package names to DebRefs by probing repositories in a
// documented order and deferring to the IndexParser for the actual matches.
type Resolver struct {
	parser *index.Parser
	// DefaultRepo is the toolchain's default repository root, consulted as
	// a fallback when the primary probe misses.
	DefaultRepo string
	// DefaultArch is the toolchain's native architecture.
	DefaultArch string
	// DefaultDistribution is the toolchain's default distribution name.
	DefaultDistribution string
	// DebRootForDistribution maps a distribution name to the repository
	// root that owns it, mirroring the toolchain-configuration loader the
	// core depends on as an external collaborator.
	DebRootForDistribution func(distribution string) string
}

// New creates a Resolver backed by an IndexParser and the toolchain
// defaults it falls back to.
func New(parser *index.Parser, defaultRepo, defaultArch, defaultDistribution string, debRootFor func(string) string) *Resolver {
	return &Resolver{
		parser:                 parser,
		DefaultRepo:            defaultRepo,
		DefaultArch:            defaultArch,
		DefaultDistribution:    defaultDistribution,
		DebRootForDistribution: debRootFor,
	}
}

// LookForPackage implements spec section 4.4. It returns a KindNotFound
// wpkgerrors.Error when no probed repository yields a match.
func (r *Resolver) LookForPackage(ctx context.Context, l Lookup) (*DebRef, error) {
	distribution := l.Distribution
	if distribution == "" {
		distribution = r.DefaultDistribution
	}

	distribution = strings.TrimSuffix(distribution, "/")

	archRoot := l.ArchRoot
	if archRoot == "" {
		archRoot = r.DefaultArch
	}

	primary := l.RepoPath
	if primary == "" {
		primary = r.debRootFor(distribution)
	}

	probes := []string{primary}
	if r.DefaultRepo != "" && r.DefaultRepo != primary {
		probes = append(probes, r.DefaultRepo)
	}

	filter := index.NewFilter().
		WithArchPattern(archRoot + "|all").
		WithDistribPattern(distribution + "|sources")

	filter, err := filter.WithName(l.Name)
	if err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindInvariantViolation, "compiling name filter")
	}

	if l.Version != "" {
		filter, err = filter.WithVersion(l.Version)
		if err != nil {
			return nil, wpkgerrors.Wrap(err, wpkgerrors.KindInvariantViolation, "compiling version filter")
		}
	}

	results, err := r.parser.ListIndexPackages(ctx, probes, filter, true)
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		entry, ok := result.Greatest[l.Name]
		if !ok {
			continue
		}

		return r.toDebRef(result.Repo, entry, archRoot, distribution)
	}

	return nil, wpkgerrors.NotFound("package " + l.Name + " not found").WithContext("name", l.Name)
}

func (r *Resolver) debRootFor(distribution string) string {
	if r.DebRootForDistribution == nil {
		return r.DefaultRepo
	}

	if root := r.DebRootForDistribution(distribution); root != "" {
		return root
	}

	return r.DefaultRepo
}

func (r *Resolver) toDebRef(repo string, entry index.IndexEntry, archRoot, distribution string) (*DebRef, error) {
	ref := &DebRef{
		Name:         entry.Name,
		Version:      entry.Version,
		Arch:         archRoot,
		Distribution: distribution,
		File:         filepath.Join(repo, entry.File),
		Repository:   repo,
	}

	if entry.Arch != nil {
		ref.Arch = *entry.Arch
	}

	if entry.Distrib != nil {
		ref.Distribution = *entry.Distrib
	}

	ref.Ctrl.Distribution = entry.CtrlDistribution

	hash, ok, err := readMD5Sidecar(ref.File)
	if err != nil {
		return nil, err
	}

	if ok {
		ref.Hash = hash
	} else {
		resolverLogger.Debug("no md5sum sidecar", "file", ref.File)
	}

	return ref, nil
}

func readMD5Sidecar(debFile string) (string, bool, error) {
	sidecar := debFile + ".md5sum"
	if !fsutil.Exists(sidecar) {
		return "", false, nil
	}

	content, err := fsutil.ReadFileString(sidecar)
	if err != nil {
		return "", false, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "reading md5sum sidecar")
	}

	return strings.TrimSpace(content), true, nil
}
