// Package index implements the IndexParser component: it drives PKGTOOL to
// dump a repository index as JSON, shapes the result into IndexEntry values,
// applies regex-capable filters, and optionally collapses each name's
// entries down to the greatest version.
package index

import (
	"context"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/cache"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/debversion"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/fsutil"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/toolrunner"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/wpkgerrors"
)

var parserLogger = logger.WithComponent("index")

// IndexEntry is a single package occurrence parsed out of a repository
// index. Arch and Distrib are nil when the underlying control data doesn't
// carry them (source packages have no architecture; a flat ctrl key has no
// distribution prefix).
type IndexEntry struct {
	Name             string
	Version          string
	Arch             *string
	Distrib          *string
	CtrlDistribution string
	// File is the entry's relative ".deb" path, "<distrib>/<name>_<version>[_<arch>].deb".
	File string
}

// Filter selects IndexEntry values. A nil field means "don't filter on this
// attribute". Construct with NewFilter and the With* methods, which mirror
// the dual literal/regex "toRegexp" semantics of the source this is ported
// from: a plain string is promoted to an anchored literal match, while a
// pattern supplied via the *Pattern variants is compiled as an anchored
// regular expression.
type Filter struct {
	Name    *regexp.Regexp
	Version *regexp.Regexp
	Arch    *regexp.Regexp
	Distrib *regexp.Regexp
}

// NewFilter returns an empty Filter matching every entry.
func NewFilter() *Filter {
	return &Filter{}
}

// ToRegexp promotes a plain string to an anchored regular expression that
// matches it literally: every metacharacter in pattern (including the "."
// and "+" that versions and names such as "libstdc++" carry) is quoted.
// Values meant as regular expressions go through MustPattern instead.
func ToRegexp(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^" + regexp.QuoteMeta(pattern) + "$")
}

// MustPattern compiles an already-regex pattern verbatim, anchored. Use this
// for filter values assembled from alternations, e.g. "(stable|sources)".
func MustPattern(pattern string) *regexp.Regexp {
	return regexp.MustCompile("^(?:" + pattern + ")$")
}

// WithName filters on an exact or pattern package name.
func (f *Filter) WithName(pattern string) (*Filter, error) {
	re, err := ToRegexp(pattern)
	if err != nil {
		return nil, err
	}

	f.Name = re

	return f, nil
}

// WithVersion filters on an exact version.
func (f *Filter) WithVersion(pattern string) (*Filter, error) {
	re, err := ToRegexp(pattern)
	if err != nil {
		return nil, err
	}

	f.Version = re

	return f, nil
}

// WithArchPattern filters arch against an already-regex pattern (e.g. an
// alternation of "<archRoot>|all").
func (f *Filter) WithArchPattern(pattern string) *Filter {
	f.Arch = MustPattern(pattern)

	return f
}

// WithDistribPattern filters distrib against an already-regex pattern (e.g.
// "<distribution>|sources").
func (f *Filter) WithDistribPattern(pattern string) *Filter {
	f.Distrib = MustPattern(pattern)

	return f
}

// Matches reports whether entry satisfies every filter key that is set.
// Nullable entry fields (Arch, Distrib) trivially satisfy a filter on that
// key: a source package has no architecture to test, so an arch filter
// cannot exclude it on that basis alone.
func (f *Filter) Matches(entry IndexEntry) bool {
	if f.Name != nil && !f.Name.MatchString(entry.Name) {
		return false
	}

	if f.Version != nil && !f.Version.MatchString(entry.Version) {
		return false
	}

	if f.Arch != nil && entry.Arch != nil && !f.Arch.MatchString(*entry.Arch) {
		return false
	}

	if f.Distrib != nil && entry.Distrib != nil && !f.Distrib.MatchString(*entry.Distrib) {
		return false
	}

	return true
}

// RepoResult is one repository's contribution to listIndexPackages, in
// probe order.
type RepoResult struct {
	Repo string
	// Greatest holds name -> entry when greater mode was requested.
	Greatest map[string]IndexEntry
	// All holds name -> version -> entry otherwise.
	All map[string]map[string]IndexEntry
}

// Parser drives PKGTOOL to list and shape repository indexes.
type Parser struct {
	runner        *toolrunner.Runner
	cache         *cache.IndexCache
	cmp           debversion.Comparator
	indexFilename string
}

// New builds a Parser. indexFilename is the per-repo index file's base name
// (e.g. "index.wpkg").
func New(runner *toolrunner.Runner, indexCache *cache.IndexCache, cmp debversion.Comparator, indexFilename string) *Parser {
	return &Parser{
		runner:        runner,
		cache:         indexCache,
		cmp:           cmp,
		indexFilename: indexFilename,
	}
}

type rawCtrlEntry struct {
	Architecture string `json:"Architecture"`
	Distribution string `json:"Distribution"`
}

var ctrlKeyPattern = regexp.MustCompile(`^(?:([^/]+)/)?([^_]+)_([^_]+)(?:_([^_]+))?\.ctrl$`)

// backslashRepairPattern matches an isolated single backslash (not already
// doubled) so it can be escaped before JSON parsing, a known quirk of
// PKGTOOL's "--list-index-packages-json" output on Windows.
var backslashRepairPattern = regexp.MustCompile(`(^|[^\\])\\([^\\]|$)`)

// RepairBackslashes doubles isolated backslashes in raw. Matches do not
// overlap, so when two single backslashes are exactly one character apart
// (as in `a\b\c`) only the first of them is doubled.
func RepairBackslashes(raw string) string {
	return backslashRepairPattern.ReplaceAllString(raw, `$1\\$2`)
}

// ListIndexPackages implements spec section 4.3's listIndexPackages. repos
// is the probe-ordered list of repository roots; there is no separate
// architecture parameter, callers select architectures through filter
// (e.g. WithArchPattern). greater collapses each name's matches down to a
// single entry, the strict maximum version under cmp.
func (p *Parser) ListIndexPackages(ctx context.Context, repos []string, filter *Filter, greater bool) ([]RepoResult, error) {
	results := make([]RepoResult, 0, len(repos))

	for _, repo := range repos {
		entries, err := p.entriesForRepo(ctx, repo)
		if err != nil {
			return nil, err
		}

		if entries == nil {
			continue
		}

		result := RepoResult{Repo: repo}

		if greater {
			greatest, err := p.groupGreatest(ctx, entries, filter)
			if err != nil {
				return nil, err
			}

			result.Greatest = greatest
		} else {
			result.All = groupAll(entries, filter)
		}

		results = append(results, result)
	}

	return results, nil
}

// entriesForRepo returns the full, unfiltered set of IndexEntry values for
// one repository, or nil if the repository has no index file (not an
// error: a missing index file is silently omitted from the result).
func (p *Parser) entriesForRepo(ctx context.Context, repo string) ([]IndexEntry, error) {
	indexPath := filepath.Join(repo, p.indexFilename)
	if !fsutil.Exists(indexPath) {
		return nil, nil
	}

	sha, err := fsutil.SHA256File(indexPath)
	if err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindIOError, "reading index file")
	}

	if cached, ok := p.cache.Get(sha); ok {
		entries, ok := cached.([]IndexEntry)
		if ok {
			return entries, nil
		}
	}

	raw, err := p.dumpIndexJSON(ctx, repo)
	if err != nil {
		return nil, err
	}

	entries, err := parseIndexJSON(raw)
	if err != nil {
		return nil, err
	}

	p.cache.Put(sha, entries)

	return entries, nil
}

func (p *Parser) dumpIndexJSON(ctx context.Context, repo string) (string, error) {
	result, err := p.runner.Run(ctx, toolrunner.Invocation{
		Args: []string{"--list-index-packages-json", "--repository", repo},
	})
	if err != nil {
		return "", wpkgerrors.Wrap(err, wpkgerrors.KindToolFailed, "listing index packages")
	}

	if result.ExitCode != 0 {
		return "", wpkgerrors.ToolFailed("PKGTOOL --list-index-packages-json", result.ExitCode, nil)
	}

	return strings.Join(result.Lines, "\n"), nil
}

func parseIndexJSON(raw string) ([]IndexEntry, error) {
	repaired := RepairBackslashes(raw)

	var keyed map[string]rawCtrlEntry
	if err := json.Unmarshal([]byte(repaired), &keyed); err != nil {
		return nil, wpkgerrors.Wrap(err, wpkgerrors.KindParseError, "parsing index JSON")
	}

	entries := make([]IndexEntry, 0, len(keyed))

	for key, ctrl := range keyed {
		entry, ok := parseCtrlKey(key, ctrl)
		if !ok {
			parserLogger.Warn("unrecognized index key", "key", key)
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseCtrlKey(key string, ctrl rawCtrlEntry) (IndexEntry, bool) {
	m := ctrlKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return IndexEntry{}, false
	}

	distribGroup, name, version, archGroup := m[1], m[2], m[3], m[4]

	entry := IndexEntry{
		Name:             name,
		Version:          version,
		CtrlDistribution: ctrl.Distribution,
		File:             strings.TrimSuffix(key, ".ctrl") + ".deb",
	}

	if distribGroup != "" {
		d := distribGroup
		entry.Distrib = &d
	}

	if archGroup != "" && ctrl.Architecture != "source" {
		a := archGroup
		entry.Arch = &a
	}

	return entry, true
}

func groupAll(entries []IndexEntry, filter *Filter) map[string]map[string]IndexEntry {
	grouped := make(map[string]map[string]IndexEntry)

	for _, entry := range entries {
		if filter != nil && !filter.Matches(entry) {
			continue
		}

		if grouped[entry.Name] == nil {
			grouped[entry.Name] = make(map[string]IndexEntry)
		}

		grouped[entry.Name][entry.Version] = entry
	}

	return grouped
}

func (p *Parser) groupGreatest(ctx context.Context, entries []IndexEntry, filter *Filter) (map[string]IndexEntry, error) {
	byName := make(map[string][]IndexEntry)

	for _, entry := range entries {
		if filter != nil && !filter.Matches(entry) {
			continue
		}

		byName[entry.Name] = append(byName[entry.Name], entry)
	}

	greatest := make(map[string]IndexEntry, len(byName))

	for name, candidates := range byName {
		best := candidates[0]

		for _, candidate := range candidates[1:] {
			isGreater, err := p.cmp.GreaterThan(ctx, candidate.Version, best.Version)
			if err != nil {
				return nil, err
			}

			if isGreater {
				best = candidate
			}
		}

		greatest[name] = best
	}

	return greatest, nil
}
