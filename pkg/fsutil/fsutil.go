// Package fsutil stands in for the OS-FS adapter spec section 1 lists as an
// external collaborator (mkdir/cp/mv/rm, directory listing, JSON read/write).
// Every function here mirrors the shape of the upstream build tool's own
// pkg/osutils file helpers, generalized for the orchestrator's needs.
package fsutil

import (
	"crypto/md5" //nolint:gosec // md5sum sidecars are a PKGTOOL interop format, not a security boundary.
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
)

// Exists reports whether path exists, swallowing any stat error as "no".
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExistsMakeDir ensures dir exists, creating it (and any parents) if not.
func ExistsMakeDir(dir string) error {
	if Exists(dir) {
		return nil
	}

	return os.MkdirAll(dir, 0o755)
}

// ListDir returns the base names of dir's direct children, or an empty
// slice (not an error) if dir does not exist.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// ListSubdirs returns the base names of dir's direct subdirectories, or an
// empty slice (not an error) if dir does not exist.
func ListSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// CopyFile copies src to dst, creating dst's parent directory if needed and
// preserving src's file mode.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := ExistsMakeDir(filepath.Dir(dst)); err != nil {
		return err
	}

	source, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			logger.Warn("failed to close source file", "path", src, "error", closeErr)
		}
	}()

	dest, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := dest.Close(); closeErr != nil {
			logger.Warn("failed to close destination file", "path", dst, "error", closeErr)
		}
	}()

	_, err = io.Copy(dest, source)

	return err
}

// MoveFile moves src to dst, falling back to copy-then-remove when the
// files live on different filesystems (os.Rename's EXDEV).
func MoveFile(src, dst string) error {
	if err := ExistsMakeDir(filepath.Dir(dst)); err != nil {
		return err
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	if !isCrossDevice(err) {
		return err
	}

	if copyErr := CopyFile(src, dst); copyErr != nil {
		return copyErr
	}

	return os.Remove(src)
}

// isCrossDevice reports whether err is os.Rename failing because src and
// dst live on different filesystems (EXDEV), the one case MoveFile falls
// back to a copy-then-remove for.
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError

	return errors.As(err, &linkErr) && strings.Contains(linkErr.Err.Error(), "cross-device")
}

// RemoveIfExists removes path, tolerating a not-exist error (benign per the
// orchestrator's sidecar-removal policy).
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// ReadJSON decodes the JSON document at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

// WriteJSON encodes v as 2-space-indented JSON and writes it to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if err := ExistsMakeDir(filepath.Dir(path)); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec // repository artifacts are not secrets.
}

// MD5File returns the lowercase hex md5sum of path's contents, the format
// PKGTOOL's own ".md5sum" sidecar files use.
func MD5File(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("failed to close file", "path", path, "error", closeErr)
		}
	}()

	hash := md5.New() //nolint:gosec // see package comment.

	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// SHA256File returns the lowercase hex SHA-256 of path's contents, used to
// key the IndexCache.
func SHA256File(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("failed to close file", "path", path, "error", closeErr)
		}
	}()

	hash := sha256.New()

	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ReadFileString returns the full contents of path as a string.
func ReadFileString(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// WriteFileString writes data to path, creating parent directories first.
func WriteFileString(path, data string) error {
	if err := ExistsMakeDir(filepath.Dir(path)); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(data), 0o644) //nolint:gosec // repository artifacts are not secrets.
}
