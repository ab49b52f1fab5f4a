// Package archive implements the ArchiveManager component: after a
// repository mutation it migrates every non-latest ".deb" out of a
// distribution directory into a structured version archive, back-links each
// package's latest build by copying it into the archive (the live artifact
// stays in the distribution), and maintains a per-package index.json catalog.
package archive

import (
	"context"
	"encoding/json"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/debversion"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/index"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

var archiveLogger = logger.WithComponent("archive")

// debFilePattern parses a distribution-directory artifact filename into its
// name/version/optional-arch components.
var debFilePattern = regexp.MustCompile(`^([^ _]+)_([^ _]+)(?:_([^ _]+))?\.deb$`)

// baseVersionSuffix strips a trailing "-<suffix>" to derive a base version.
var baseVersionSuffix = regexp.MustCompile(`-[^-]*$`)

// BaseVersion computes the base version for v: the version up to (but not
// including) its last "-suffix".
func BaseVersion(v string) string {
	return baseVersionSuffix.ReplaceAllString(v, "")
}

// debFile is one parsed ".deb" artifact inside a distribution directory.
type debFile struct {
	Name    string
	Version string
	Arch    string
	File    string
}

// Manager drives the archival sweep and catalog maintenance.
type Manager struct {
	runner        *toolrunner.Runner
	parser        *index.Parser
	cmp           debversion.Comparator
	indexFilename string
}

// New builds a Manager.
func New(runner *toolrunner.Runner, parser *index.Parser, cmp debversion.Comparator, indexFilename string) *Manager {
	return &Manager{runner: runner, parser: parser, cmp: cmp, indexFilename: indexFilename}
}

// ArchiveRootFor returns the sibling archive tree root for a repository:
// "<parent(repo)>/wpkg@ver".
func ArchiveRootFor(repo string) string {
	return filepath.Join(filepath.Dir(repo), "wpkg@ver")
}

// ArchiveDistribution implements spec section 4.5's archiveDistribution.
func (m *Manager) ArchiveDistribution(ctx context.Context, repo, distribution string) error {
	distDir := filepath.Join(repo, distribution)

	names, err := fsutil.ListDir(distDir)
	if err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "listing distribution directory")
	}

	groups := make(map[string][]debFile)

	for _, name := range names {
		match := debFilePattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}

		pkgName := match[1]
		if strings.HasSuffix(pkgName, "-stub") {
			continue
		}

		groups[pkgName] = append(groups[pkgName], debFile{
			Name:    pkgName,
			Version: match[2],
			Arch:    match[3],
			File:    name,
		})
	}

	if len(groups) == 0 {
		return nil
	}

	ctrlByNameVersion, err := m.ctrlDistributions(ctx, repo)
	if err != nil {
		return err
	}

	archiveRoot := ArchiveRootFor(repo)

	for name, group := range groups {
		latest, losers, err := m.splitLatest(ctx, group)
		if err != nil {
			return err
		}

		if latest == nil {
			return wpkgerrors.New(wpkgerrors.KindInvariantViolation,
				"at least one version of "+name+" must exist in the main repository")
		}

		for _, loser := range losers {
			targetDist := m.targetDistribution(ctrlByNameVersion, loser, distribution)
			archiveDistDir := filepath.Join(archiveRoot, targetDist)

			if err := m.moveToArchive(ctx, distDir, archiveDistDir, loser, false); err != nil {
				return err
			}
		}

		targetDist := m.targetDistribution(ctrlByNameVersion, *latest, distribution)
		archiveDistDir := filepath.Join(archiveRoot, targetDist)

		if err := m.moveToArchive(ctx, distDir, archiveDistDir, *latest, true); err != nil {
			return err
		}
	}

	return nil
}

// splitLatest runs the linear-scan reduction spec section 4.5 step 4
// describes, returning the winning (latest) artifact and every loser.
func (m *Manager) splitLatest(ctx context.Context, group []debFile) (*debFile, []debFile, error) {
	if len(group) == 0 {
		return nil, nil, nil
	}

	toCheck := group[0]

	var losers []debFile

	for _, candidate := range group[1:] {
		isGreater, err := m.cmp.GreaterThan(ctx, candidate.Version, toCheck.Version)
		if err != nil {
			return nil, nil, err
		}

		if isGreater {
			losers = append(losers, toCheck)
			toCheck = candidate
		} else {
			losers = append(losers, candidate)
		}
	}

	latest := toCheck

	return &latest, losers, nil
}

// ctrlDistributions maps "name/version" to the control file's Distribution
// field, used to detect the "+"-marked specialized-distribution redirect.
func (m *Manager) ctrlDistributions(ctx context.Context, repo string) (map[string]string, error) {
	results, err := m.parser.ListIndexPackages(ctx, []string{repo}, nil, false)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)

	for _, result := range results {
		for name, versions := range result.All {
			for version, entry := range versions {
				out[name+"/"+version] = entry.CtrlDistribution
			}
		}
	}

	return out, nil
}

func (m *Manager) targetDistribution(ctrlByNameVersion map[string]string, deb debFile, swept string) string {
	ctrl, ok := ctrlByNameVersion[deb.Name+"/"+deb.Version]
	if ok && strings.Contains(ctrl, "+") {
		return ctrl
	}

	return swept
}

// moveToArchive implements spec section 4.5's moveToArchive.
func (m *Manager) moveToArchive(ctx context.Context, packagesDir, archiveDistDir string, deb debFile, backLink bool) error {
	src := filepath.Join(packagesDir, deb.File)
	dst := filepath.Join(archiveDistDir, deb.Name, deb.Version, deb.File)

	if fsutil.Exists(dst) {
		same, err := sameContent(src, dst)
		if err != nil {
			return err
		}

		if same {
			if !backLink {
				return fsutil.RemoveIfExists(src)
			}

			return nil
		}

		archiveLogger.Warn("archive target differs from source, overwriting",
			"name", deb.Name, "version", deb.Version, "file", deb.File)
	}

	if backLink {
		if err := fsutil.CopyFile(src, dst); err != nil {
			return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "back-linking latest into archive")
		}
	} else {
		if err := fsutil.MoveFile(src, dst); err != nil {
			return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "moving artifact into archive")
		}
	}

	if err := moveSidecar(src+".md5sum", dst+".md5sum", backLink); err != nil {
		return err
	}

	versionDir := filepath.Dir(dst)
	if _, err := m.runner.Run(ctx, toolrunner.Invocation{
		Args: []string{"--create-index", "--repository", versionDir, "--recursive", "--depth", "1"},
	}); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindToolFailed, "refreshing archive version index")
	}

	return m.RefreshCatalog(ctx, archiveDistDir, deb.Name)
}

func moveSidecar(src, dst string, backLink bool) error {
	if !fsutil.Exists(src) {
		return nil
	}

	if backLink {
		return fsutil.CopyFile(src, dst)
	}

	return fsutil.MoveFile(src, dst)
}

func sameContent(a, b string) (bool, error) {
	aHash, err := fsutil.MD5File(a)
	if err != nil {
		return false, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "hashing archive source")
	}

	bHash, err := fsutil.MD5File(b)
	if err != nil {
		return false, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "hashing archive destination")
	}

	return aHash == bHash, nil
}

// baseEntry is one base-version's catalog record.
type baseEntry struct {
	Latest   string   `json:"latest"`
	Versions []string `json:"versions"`
}

// RefreshCatalog rebuilds "<archiveDistDir>/<name>/index.json" from the
// actual set of version directories present under the package's archive
// directory, per spec section 4.5 step 5. Exported so callers that move or
// relocate archived versions out-of-band (the orchestrator's MoveArchive)
// can bring the catalog back in sync afterward.
func (m *Manager) RefreshCatalog(ctx context.Context, archiveDistDir, name string) error {
	nameDir := filepath.Join(archiveDistDir, name)

	versions, err := fsutil.ListSubdirs(nameDir)
	if err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "listing archived versions")
	}

	byBase := make(map[string][]string)

	for _, version := range versions {
		base := BaseVersion(version)
		byBase[base] = append(byBase[base], version)
	}

	doc := make(map[string]any, len(byBase)+1)
	bases := make([]string, 0, len(byBase))

	for base, vs := range byBase {
		sort.Strings(vs)

		latest, err := debversion.Max(ctx, m.cmp, vs)
		if err != nil {
			return err
		}

		doc[base] = baseEntry{Latest: latest, Versions: vs}
		bases = append(bases, base)
	}

	if len(bases) > 0 {
		topLatest, err := debversion.Max(ctx, m.cmp, bases)
		if err != nil {
			return err
		}

		doc["latest"] = topLatest
	}

	catalogPath := filepath.Join(nameDir, "index.json")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "encoding archive catalog")
	}

	if err := fsutil.WriteFileString(catalogPath, string(data)); err != nil {
		return wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "writing archive catalog")
	}

	return nil
}
