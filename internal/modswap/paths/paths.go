package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/modswap/internal/modswap/domain"
)

// Default file and directory names, relative to the active root.
const (
	ConfigFileName = "modConfig.json"
	BackupDirName  = "ModsBackup"
)

// PathBuilder provides methods to construct modswap paths relative to the active root.
type PathBuilder struct {
	root       string
	configName string
	backupName string
}

// New creates a new PathBuilder for the given active root using the default names.
func New(root string) *PathBuilder {
	return &PathBuilder{root: root, configName: ConfigFileName, backupName: BackupDirName}
}

// WithNames returns a copy using custom config file and backup directory names.
// Empty arguments keep the current value.
func (p *PathBuilder) WithNames(configName, backupName string) *PathBuilder {
	clone := *p
	if configName != "" {
		clone.configName = configName
	}
	if backupName != "" {
		clone.backupName = backupName
	}
	return &clone
}

// ValidateName checks a config file or backup directory name. Names must be
// a single path element directly below the active root.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: name is empty", domain.ErrInvalidLayoutName)
	case trimmed == "." || trimmed == "..":
		return fmt.Errorf("%w: %q refers to a directory above or at the root", domain.ErrInvalidLayoutName, name)
	case strings.ContainsAny(trimmed, `/\`) || filepath.IsAbs(trimmed) || filepath.VolumeName(trimmed) != "":
		return fmt.Errorf("%w: %q must not contain a path separator", domain.ErrInvalidLayoutName, name)
	case strings.ContainsRune(trimmed, 0):
		return fmt.Errorf("%w: %q contains a null byte", domain.ErrInvalidLayoutName, name)
	}
	return nil
}

// Validate checks both names of the layout and that they differ.
func (p *PathBuilder) Validate() error {
	if err := ValidateName(p.configName); err != nil {
		return fmt.Errorf("config name: %w", err)
	}
	if err := ValidateName(p.backupName); err != nil {
		return fmt.Errorf("backup directory name: %w", err)
	}
	if strings.EqualFold(p.configName, p.backupName) {
		return fmt.Errorf("%w: config and backup directory share the name %q", domain.ErrInvalidLayoutName, p.backupName)
	}
	return nil
}

// ActiveRoot returns the directory where enabled mods live.
func (p *PathBuilder) ActiveRoot() string {
	return p.root
}

// BackupRoot returns the directory holding disabled mods.
func (p *PathBuilder) BackupRoot() string {
	return filepath.Join(p.root, p.backupName)
}

// ConfigPath returns the path to the configuration file.
func (p *PathBuilder) ConfigPath() string {
	return filepath.Join(p.root, p.configName)
}

// ConfigName returns the configuration file name.
func (p *PathBuilder) ConfigName() string {
	return p.configName
}

// BackupName returns the backup directory name.
func (p *PathBuilder) BackupName() string {
	return p.backupName
}

// ActivePath returns the location of an entry under the active root.
func (p *PathBuilder) ActivePath(entry string) string {
	return filepath.Join(p.ActiveRoot(), entry)
}

// BackupPath returns the location of an entry under the backup root. The
// entry's relative directory structure is kept so entries sharing a base
// name do not collide.
func (p *PathBuilder) BackupPath(entry string) string {
	return filepath.Join(p.BackupRoot(), entry)
}
