package orchestrator

import "github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/resolver"

// resolverLookup builds the common case of a resolver.Lookup: exact name,
// arch, distribution, and repo, with no version pin.
func resolverLookup(name, arch, distribution, repoPath string) resolver.Lookup {
	return resolver.Lookup{
		Name:         name,
		ArchRoot:     arch,
		Distribution: distribution,
		RepoPath:     repoPath,
	}
}
