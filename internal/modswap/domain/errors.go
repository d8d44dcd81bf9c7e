package domain

import "errors"

// Exported error variables allow callers to use errors.Is() for error checking.
var (
	ErrConfigMissing = errors.New("modConfig.json not found")
	ErrConfigParse   = errors.New("modConfig.json is malformed")

	ErrEntryNotFound = errors.New("entry not found")
	ErrEntryConflict = errors.New("destination already exists")

	ErrInvalidEntryPath     = errors.New("invalid entry path")
	ErrEntryPathEmpty       = errors.New("entry path cannot be empty")
	ErrEntryPathAbsolute    = errors.New("entry path must be relative")
	ErrEntryPathEscapesRoot = errors.New("entry path escapes the root directory")
	ErrEntryPathNullByte    = errors.New("entry path contains null byte")
	ErrEntryPathIsRoot      = errors.New("entry path refers to the root directory itself")
	ErrEntryPathReserved    = errors.New("entry path refers to a reserved location")

	ErrInvalidLayoutName   = errors.New("invalid config or backup name")
	ErrEntryOverlapsBackup = errors.New("entry and its destination overlap")

	ErrSymlinkRefused  = errors.New("refusing to operate on symlink")
	ErrContentMismatch = errors.New("copied content does not match source")
)
