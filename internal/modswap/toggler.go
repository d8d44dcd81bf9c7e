package modswap

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/example/modswap/internal/modswap/config"
	"github.com/example/modswap/internal/modswap/domain"
	"github.com/example/modswap/internal/modswap/paths"
	"github.com/example/modswap/internal/modswap/storage"
	"github.com/example/modswap/internal/modswap/validator"
)

// ConfirmFunc decides whether an existing destination may be overwritten.
// It receives the conflicting destination path.
type ConfirmFunc func(target string) bool

// AlwaysConfirm overwrites every conflicting destination.
func AlwaysConfirm(string) bool { return true }

// NeverConfirm skips every entry whose destination already exists.
func NeverConfirm(string) bool { return false }

// Toggler moves configured entries between the active and backup roots.
type Toggler struct {
	storage   *storage.Storage
	layout    *paths.PathBuilder
	validator *validator.Validator
	store     *config.Store
	logger    *slog.Logger
}

// NewToggler creates a Toggler. A nil logger discards output.
func NewToggler(storage *storage.Storage, layout *paths.PathBuilder, validator *validator.Validator, store *config.Store, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Toggler{
		storage:   storage,
		layout:    layout,
		validator: validator,
		store:     store,
		logger:    logger,
	}
}

// Toggle loads the configuration, moves every entry in the given direction
// and persists the resulting status.
//
// Only configuration load failures are returned as errors. Entry failures
// are recorded in the report and never stop the run; a failure to save the
// new status is reported through Report.SaveErr. When the configuration
// lists no entries nothing is moved and the status is left as it was.
func (t *Toggler) Toggle(direction Direction, confirm ConfirmFunc) (*Report, error) {
	cfg, err := t.store.Load()
	if err != nil {
		return nil, err
	}

	report := &Report{Direction: direction, Status: cfg.ModStatus}
	if len(cfg.ModPaths) == 0 {
		t.logger.Info("no entries configured", "operation", direction.String())
		return report, nil
	}

	for _, entry := range cfg.ModPaths {
		report.Entries = append(report.Entries, t.moveEntry(direction, entry, confirm))
	}

	cfg.ModStatus = direction.Target()
	report.Status = cfg.ModStatus
	if err := t.store.Save(cfg); err != nil {
		t.logger.Error("failed to persist status",
			"path", t.store.Path(),
			"status", cfg.ModStatus,
			"error", err)
		report.SaveErr = err
		return report, nil
	}
	report.Saved = true
	return report, nil
}

// endpoints returns the source and destination of an entry for a direction.
func (t *Toggler) endpoints(direction Direction, entry string) (string, string) {
	if direction == Enable {
		return t.layout.BackupPath(entry), t.layout.ActivePath(entry)
	}
	return t.layout.ActivePath(entry), t.layout.BackupPath(entry)
}

func (t *Toggler) moveEntry(direction Direction, entry string, confirm ConfirmFunc) EntryResult {
	result := EntryResult{Path: entry}

	normalized, err := t.validator.NormalizePath(entry)
	if err != nil {
		t.logger.Warn("invalid entry path", "path", entry, "error", err)
		result.Outcome = Invalid
		result.Err = err
		return result
	}

	source, destination := t.endpoints(direction, normalized)
	result.Source = source
	result.Destination = destination

	if overlaps(source, destination) {
		return t.fail(direction, result, fmt.Errorf("%w: %s and %s", domain.ErrEntryOverlapsBackup, source, destination))
	}

	kind, err := t.storage.KindOf(source)
	if err != nil {
		return t.fail(direction, result, err)
	}
	result.Kind = kind
	if kind == storage.KindNone {
		t.logger.Warn("entry not found",
			"path", entry,
			"source", source,
			"operation", direction.String())
		result.Outcome = NotFound
		result.Err = domain.ErrEntryNotFound
		return result
	}

	existing, err := t.storage.KindOf(destination)
	if err != nil {
		return t.fail(direction, result, err)
	}
	if existing != storage.KindNone {
		if confirm == nil || !confirm(destination) {
			t.logger.Debug("overwrite declined",
				"path", entry,
				"destination", destination)
			result.Outcome = Skipped
			result.Err = domain.ErrEntryConflict
			return result
		}
		// A file cannot be merged into a folder or the reverse.
		if existing != kind {
			if err := t.storage.RemoveAll(destination); err != nil {
				return t.fail(direction, result, fmt.Errorf("remove existing %s: %w", existing, err))
			}
		}
	}

	if kind == storage.KindDir {
		err = t.storage.CopyDir(source, destination)
	} else {
		err = t.storage.CopyFile(source, destination)
	}
	if err != nil {
		return t.fail(direction, result, err)
	}
	if err := t.storage.VerifyCopy(source, destination); err != nil {
		return t.fail(direction, result, err)
	}
	if err := t.storage.RemoveAll(source); err != nil {
		return t.fail(direction, result, fmt.Errorf("remove original: %w", err))
	}
	if direction == Enable {
		t.pruneEmptyParents(source, t.layout.BackupRoot())
	}

	t.logger.Info("entry moved",
		"path", entry,
		"kind", kind.String(),
		"source", source,
		"destination", destination,
		"operation", direction.String())
	result.Outcome = Moved
	return result
}

func (t *Toggler) fail(direction Direction, result EntryResult, err error) EntryResult {
	t.logger.Error("entry failed",
		"path", result.Path,
		"source", result.Source,
		"destination", result.Destination,
		"operation", direction.String(),
		"error", err)
	result.Outcome = Errored
	result.Err = err
	return result
}

// overlaps reports whether a and b are the same path or one contains the other.
func overlaps(a, b string) bool {
	return within(a, b) || within(b, a)
}

func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// pruneEmptyParents removes directories left empty below stop after an
// entry nested in subfolders was restored from the backup root.
func (t *Toggler) pruneEmptyParents(path, stop string) {
	stop = filepath.Clean(stop)
	for dir := filepath.Dir(path); dir != stop && len(dir) > len(stop); dir = filepath.Dir(dir) {
		empty, err := t.storage.IsEmptyDir(dir)
		if err != nil || !empty {
			return
		}
		if err := t.storage.Remove(dir); err != nil {
			t.logger.Debug("failed to prune empty directory", "path", dir, "error", err)
			return
		}
	}
}
