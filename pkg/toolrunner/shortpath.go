package toolrunner

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// aliasRoot holds the short-path aliases PKGTOOL is handed in place of a
// long temp directory; some external tools truncate or mis-handle paths
// past a platform-specific length limit.
var (
	aliasMu   sync.Mutex
	aliasRoot = filepath.Join(os.TempDir(), "wpkg-tmp")
)

// ShortAlias returns a short, stable alias path for the given (possibly
// long) temp directory, creating the backing symlink on first use.
func ShortAlias(tempDir string) (string, error) {
	aliasMu.Lock()
	defer aliasMu.Unlock()

	if err := os.MkdirAll(aliasRoot, 0o755); err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(tempDir))
	alias := filepath.Join(aliasRoot, hex.EncodeToString(sum[:])[:12])

	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", err
	}

	target, err := os.Readlink(alias)
	if err == nil && target == tempDir {
		return alias, nil
	}

	if err == nil && target != tempDir {
		if rmErr := os.Remove(alias); rmErr != nil {
			return "", rmErr
		}
	}

	if err := os.Symlink(tempDir, alias); err != nil && !errors.Is(err, os.ErrExist) {
		return "", err
	}

	return alias, nil
}
