package modswap

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/example/modswap/internal/modswap/config"
	"github.com/example/modswap/internal/modswap/paths"
	"github.com/example/modswap/internal/modswap/storage"
	"github.com/example/modswap/internal/modswap/validator"
)

// Manager coordinates mod toggling for one active root.
type Manager struct {
	layout    *paths.PathBuilder
	storage   *storage.Storage
	store     *config.Store
	validator *validator.Validator
	toggler   *Toggler
	logger    *slog.Logger
}

// Option customises a Manager.
type Option func(*options)

type options struct {
	configName string
	backupName string
}

// WithConfigName overrides the configuration file name.
func WithConfigName(name string) Option {
	return func(o *options) { o.configName = name }
}

// WithBackupDirName overrides the backup directory name.
func WithBackupDirName(name string) Option {
	return func(o *options) { o.backupName = name }
}

// NewManager constructs a Manager rooted at the active root directory. It
// fails when a custom config or backup name is not a plain name.
func NewManager(fs afero.Fs, root string, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	layout := paths.New(root).WithNames(o.configName, o.backupName)
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	store := storage.New(fs)
	cfgStore := config.New(store, layout.ConfigPath())
	v := validator.New(layout.BackupName(), layout.ConfigName())

	return &Manager{
		layout:    layout,
		storage:   store,
		store:     cfgStore,
		validator: v,
		toggler:   NewToggler(store, layout, v, cfgStore, logger),
		logger:    logger,
	}, nil
}

// Paths returns the path layout of the managed root.
func (m *Manager) Paths() *paths.PathBuilder {
	return m.layout
}

// ConfigPath returns the path to the configuration file.
func (m *Manager) ConfigPath() string {
	return m.layout.ConfigPath()
}

// InitInfra ensures the backup directory exists and reports whether it had
// to be created.
func (m *Manager) InitInfra() (bool, error) {
	backupRoot := m.layout.BackupRoot()
	exists, err := m.storage.Exists(backupRoot)
	if err != nil {
		return false, fmt.Errorf("failed to inspect backup directory: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := m.storage.MkdirAll(backupRoot); err != nil {
		return false, fmt.Errorf("failed to create backup directory: %w", err)
	}
	m.logger.Info("backup directory created", "path", backupRoot)
	return true, nil
}

// ConfigExists reports whether the configuration file is present.
func (m *Manager) ConfigExists() (bool, error) {
	return m.store.Exists()
}

// LoadConfig reads the configuration file.
func (m *Manager) LoadConfig() (*config.Config, error) {
	return m.store.Load()
}

// Enable restores every configured entry from the backup root.
func (m *Manager) Enable(confirm ConfirmFunc) (*Report, error) {
	return m.toggle(Enable, confirm)
}

// Disable moves every configured entry into the backup root.
func (m *Manager) Disable(confirm ConfirmFunc) (*Report, error) {
	return m.toggle(Disable, confirm)
}

func (m *Manager) toggle(direction Direction, confirm ConfirmFunc) (*Report, error) {
	if _, err := m.InitInfra(); err != nil {
		return nil, err
	}
	return m.toggler.Toggle(direction, confirm)
}

// Location says where a configured entry currently lives.
type Location int

const (
	LocationMissing Location = iota
	LocationActive
	LocationBackup
	LocationBoth
)

func (l Location) String() string {
	switch l {
	case LocationActive:
		return "active"
	case LocationBackup:
		return "backup"
	case LocationBoth:
		return "both"
	default:
		return "missing"
	}
}

// EntryStatus describes one configured entry for the status command.
type EntryStatus struct {
	Path     string
	Location Location
	Err      error
}

// StatusReport lists entry locations alongside the persisted status.
type StatusReport struct {
	Status  config.Status
	Entries []EntryStatus
}

// Status reports where every configured entry currently lives.
func (m *Manager) Status() (*StatusReport, error) {
	cfg, err := m.LoadConfig()
	if err != nil {
		return nil, err
	}

	report := &StatusReport{Status: cfg.ModStatus}
	for _, entry := range cfg.ModPaths {
		status := EntryStatus{Path: entry}
		normalized, err := m.validator.NormalizePath(entry)
		if err != nil {
			status.Err = err
			report.Entries = append(report.Entries, status)
			continue
		}

		active, err := m.storage.KindOf(m.layout.ActivePath(normalized))
		if err != nil {
			status.Err = err
			report.Entries = append(report.Entries, status)
			continue
		}
		backup, err := m.storage.KindOf(m.layout.BackupPath(normalized))
		if err != nil {
			status.Err = err
			report.Entries = append(report.Entries, status)
			continue
		}

		switch {
		case active != storage.KindNone && backup != storage.KindNone:
			status.Location = LocationBoth
		case active != storage.KindNone:
			status.Location = LocationActive
		case backup != storage.KindNone:
			status.Location = LocationBackup
		}
		report.Entries = append(report.Entries, status)
	}
	return report, nil
}

// Messages renders the status report as severity-tagged lines.
func (r *StatusReport) Messages() []Message {
	messages := []Message{Info("Mod status: %s", r.Status)}
	if len(r.Entries) == 0 {
		return append(messages, Warning("No mod paths configured."))
	}
	for _, entry := range r.Entries {
		switch {
		case entry.Err != nil:
			messages = append(messages, Error("%s: %v", entry.Path, entry.Err))
		case entry.Location == LocationActive:
			messages = append(messages, Success("%s: enabled", entry.Path))
		case entry.Location == LocationBackup:
			messages = append(messages, Info("%s: disabled (in backup)", entry.Path))
		case entry.Location == LocationBoth:
			messages = append(messages, Warning("%s: present in both locations", entry.Path))
		default:
			messages = append(messages, Warning("%s: not found", entry.Path))
		}
	}
	return messages
}
