package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/example/modswap/internal/modswap/domain"
)

const tempSuffix = ".modswap-tmp"

// Kind describes what a path points at.
type Kind int

const (
	KindNone Kind = iota
	KindFile
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "folder"
	default:
		return "none"
	}
}

// Storage provides low-level file operations with security validations.
type Storage struct {
	fs afero.Fs
}

// New creates a new Storage instance.
func New(fs afero.Fs) *Storage {
	return &Storage{fs: fs}
}

// lstat uses Lstat when the filesystem supports it so symlinks are seen as such.
func (s *Storage) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := s.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return s.fs.Stat(path)
}

// ValidatePathSafety checks that the path is not a symlink, preventing symlink attacks.
// It returns nil if the path doesn't exist or is a regular file/directory.
func (s *Storage) ValidatePathSafety(path string) error {
	info, err := s.lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to check path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", domain.ErrSymlinkRefused, path)
	}
	return nil
}

// KindOf reports whether path is a file, a directory, or absent.
// Symlinks are reported as files so callers reach ValidatePathSafety.
func (s *Storage) KindOf(path string) (Kind, error) {
	info, err := s.lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return KindNone, nil
		}
		return KindNone, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return KindDir, nil
	}
	return KindFile, nil
}

// CopyFile copies a file from src to dst, atomically replacing the destination.
// Missing parent directories are created and the source permissions are kept.
func (s *Storage) CopyFile(src, dst string) (err error) {
	if err := s.ValidatePathSafety(src); err != nil {
		return fmt.Errorf("validate source: %w", err)
	}
	if err := s.ValidatePathSafety(dst); err != nil {
		return fmt.Errorf("validate destination: %w", err)
	}

	source, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if cerr := source.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close source: %w", cerr)
		}
	}()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("copy file: %s is a directory", src)
	}
	perm := info.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	if err := s.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Create temp file in same directory (enables atomic rename)
	tmp := dst + tempSuffix
	dest, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, copyErr := io.Copy(dest, source)
	closeErr := dest.Close()

	if copyErr != nil || closeErr != nil {
		s.fs.Remove(tmp)
		if copyErr != nil {
			return fmt.Errorf("copy data: %w", copyErr)
		}
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if err := s.fs.Rename(tmp, dst); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}

	return nil
}

// CopyDir recursively copies the directory tree at src into dst.
//
// The destination directory is created when absent. Every direct file is
// copied with overwrite allowed, then every direct subdirectory is copied
// into the matching destination subdirectory, so the whole subtree is
// preserved regardless of depth. Files already present in dst but absent
// from src are left in place.
func (s *Storage) CopyDir(src, dst string) error {
	if err := s.ValidatePathSafety(src); err != nil {
		return fmt.Errorf("validate source: %w", err)
	}
	if err := s.fs.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	entries, err := afero.ReadDir(s.fs, src)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", src, err)
	}

	var dirs []os.FileInfo
	for _, entry := range entries {
		if entry.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", domain.ErrSymlinkRefused, filepath.Join(src, entry.Name()))
		}
		if entry.IsDir() {
			dirs = append(dirs, entry)
			continue
		}
		if err := s.CopyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	for _, dir := range dirs {
		if err := s.CopyDir(filepath.Join(src, dir.Name()), filepath.Join(dst, dir.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Digest returns the SHA-256 hash of the given file.
func (s *Storage) Digest(path string) (string, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyCopy checks that every file below src exists below dst with the
// same content. src may be a single file or a directory tree.
func (s *Storage) VerifyCopy(src, dst string) error {
	return afero.Walk(s.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		want, err := s.Digest(path)
		if err != nil {
			return err
		}
		got, err := s.Digest(target)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrContentMismatch, target, err)
		}
		if got != want {
			return fmt.Errorf("%w: %s", domain.ErrContentMismatch, target)
		}
		return nil
	})
}

// ReadFile reads the entire file.
func (s *Storage) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// WriteFile atomically replaces path with data.
func (s *Storage) WriteFile(path string, data []byte) error {
	if err := s.ValidatePathSafety(path); err != nil {
		return err
	}
	tmp := path + tempSuffix
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// Exists checks if a path exists.
func (s *Storage) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// IsEmptyDir reports whether path is a directory with no entries.
func (s *Storage) IsEmptyDir(path string) (bool, error) {
	isDir, err := afero.IsDir(s.fs, path)
	if err != nil || !isDir {
		return false, err
	}
	return afero.IsEmpty(s.fs, path)
}

// MkdirAll creates a directory and any missing parents.
func (s *Storage) MkdirAll(path string) error {
	return s.fs.MkdirAll(path, 0o755)
}

// Remove deletes a file or empty directory.
func (s *Storage) Remove(path string) error {
	return s.fs.Remove(path)
}

// RemoveAll deletes path and everything below it.
func (s *Storage) RemoveAll(path string) error {
	return s.fs.RemoveAll(path)
}
