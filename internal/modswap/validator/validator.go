package validator

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/example/modswap/internal/modswap/domain"
)

// caseInsensitiveFS reports whether reserved names match regardless of case.
// The default filesystems of Windows and macOS fold case.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// Validator checks configured entry paths before any filesystem access.
type Validator struct {
	reserved []string
	foldCase bool
}

// New creates a Validator. Reserved names are root-level entries that may
// never be moved, such as the backup directory and the configuration file.
func New(reserved ...string) *Validator {
	cleaned := make([]string, 0, len(reserved))
	for _, name := range reserved {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cleaned = append(cleaned, filepath.Clean(name))
	}
	return &Validator{reserved: cleaned, foldCase: caseInsensitiveFS}
}

// NormalizePath validates a configured entry path and returns it cleaned,
// using the host separator.
//
// The function rejects:
//   - Empty or whitespace-only paths
//   - Null bytes
//   - Absolute paths and paths carrying a volume name
//   - Paths that resolve to the root itself or climb out of it with ".."
//   - Paths equal to or below a reserved name
//
// Both '/' and '\' are accepted as separators so configurations written on
// Windows work unchanged elsewhere.
func (v *Validator) NormalizePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", invalid(domain.ErrEntryPathEmpty)
	}
	if strings.ContainsRune(trimmed, 0) {
		return "", invalid(domain.ErrEntryPathNullByte)
	}

	slashed := strings.ReplaceAll(trimmed, `\`, "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(trimmed) || filepath.VolumeName(trimmed) != "" || hasDriveLetter(slashed) {
		return "", invalid(domain.ErrEntryPathAbsolute)
	}

	cleaned := filepath.Clean(filepath.FromSlash(slashed))
	if cleaned == "." {
		return "", invalid(domain.ErrEntryPathIsRoot)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", invalid(domain.ErrEntryPathEscapesRoot)
	}

	for _, name := range v.reserved {
		if v.isReserved(cleaned, name) {
			return "", fmt.Errorf("%w: %w (%s)", domain.ErrInvalidEntryPath, domain.ErrEntryPathReserved, name)
		}
	}
	return cleaned, nil
}

// isReserved reports whether path is name or lies below it.
func (v *Validator) isReserved(path, name string) bool {
	if v.foldCase {
		path, name = strings.ToLower(path), strings.ToLower(name)
	}
	return path == name || strings.HasPrefix(path, name+string(filepath.Separator))
}

func invalid(reason error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidEntryPath, reason)
}

// hasDriveLetter catches "C:/..." style paths on hosts where filepath does
// not understand volume names.
func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
