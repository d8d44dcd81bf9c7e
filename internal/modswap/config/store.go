package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/example/modswap/internal/modswap/domain"
	"github.com/example/modswap/internal/modswap/storage"
)

// Status is the persisted toggle state. Unknown values are kept verbatim.
type Status string

const (
	StatusUnknown  Status = ""
	StatusEnabled  Status = "Enabled"
	StatusDisabled Status = "Disabled"
)

// Normalize maps case variants of the known states onto their canonical form.
func (s Status) Normalize() Status {
	trimmed := strings.TrimSpace(string(s))
	switch {
	case strings.EqualFold(trimmed, string(StatusEnabled)):
		return StatusEnabled
	case strings.EqualFold(trimmed, string(StatusDisabled)):
		return StatusDisabled
	default:
		return Status(trimmed)
	}
}

func (s Status) String() string {
	if s == StatusUnknown {
		return "Unknown"
	}
	return string(s)
}

// Config is the content of modConfig.json.
type Config struct {
	ModPaths  []string `json:"ModPaths"`
	ModStatus Status   `json:"ModStatus,omitempty"`
}

// wireConfig also accepts the shorter "Status" key written by older releases.
type wireConfig struct {
	ModPaths  []string `json:"ModPaths"`
	ModStatus Status   `json:"ModStatus"`
	Status    Status   `json:"Status"`
}

// Example is the sample configuration shown in the usage guide.
func Example() Config {
	return Config{ModPaths: []string{"a", "b/scripts", "menyoo.dll"}}
}

// Store loads and saves the configuration file.
type Store struct {
	storage *storage.Storage
	path    string
}

// New creates a Store for the configuration file at path.
func New(storage *storage.Storage, path string) *Store {
	return &Store{storage: storage, path: path}
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the configuration file is present.
func (s *Store) Exists() (bool, error) {
	return s.storage.Exists(s.path)
}

// Load reads and decodes the configuration file.
//
// A missing file wraps domain.ErrConfigMissing and malformed JSON wraps
// domain.ErrConfigParse. A null or absent ModPaths list decodes to an empty
// list, which callers treat as nothing to do.
func (s *Store) Load() (*Config, error) {
	data, err := s.storage.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigMissing, s.path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var wire wireConfig
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigParse, err)
	}

	cfg := &Config{ModPaths: wire.ModPaths, ModStatus: wire.ModStatus}
	if cfg.ModStatus == StatusUnknown {
		cfg.ModStatus = wire.Status
	}
	cfg.ModStatus = cfg.ModStatus.Normalize()
	if cfg.ModPaths == nil {
		cfg.ModPaths = []string{}
	}
	return cfg, nil
}

// Save writes the configuration back as indented JSON.
func (s *Store) Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	out := *cfg
	if out.ModPaths == nil {
		out.ModPaths = []string{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	data = append(data, '\n')
	if err := s.storage.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
