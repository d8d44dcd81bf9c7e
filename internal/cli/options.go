package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MODSWAP"

// Flag names, also used as viper keys. MODSWAP_<NAME> overrides each one.
const (
	flagRoot      = "root"
	flagConfig    = "config"
	flagBackupDir = "backup-dir"
	flagYes       = "yes"
	flagVerbose   = "verbose"
)

// executableDir resolves the default active root. Overridable for tests.
var executableDir = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Options are the resolved runtime settings of the tool.
type Options struct {
	Root       string
	ConfigName string
	BackupDir  string
	AssumeYes  bool
	Verbose    bool
}

func addPersistentFlags(flags *pflag.FlagSet) {
	flags.String(flagRoot, "", "Game directory holding the mods (default: directory of the executable)")
	flags.String(flagConfig, "", "Configuration file name inside the root (default: modConfig.json)")
	flags.String(flagBackupDir, "", "Backup directory name inside the root (default: ModsBackup)")
	flags.BoolP(flagYes, "y", false, "Overwrite existing destinations without asking")
	flags.BoolP(flagVerbose, "v", false, "Write debug logs to stderr")
}

// loadOptions merges flags and MODSWAP_* environment variables.
func loadOptions(flags *pflag.FlagSet) (Options, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Options{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	opts := Options{
		Root:       strings.TrimSpace(v.GetString(flagRoot)),
		ConfigName: strings.TrimSpace(v.GetString(flagConfig)),
		BackupDir:  strings.TrimSpace(v.GetString(flagBackupDir)),
		AssumeYes:  v.GetBool(flagYes),
		Verbose:    v.GetBool(flagVerbose),
	}
	if opts.Root == "" {
		dir, err := executableDir()
		if err != nil {
			return Options{}, fmt.Errorf("failed to locate executable directory: %w", err)
		}
		opts.Root = dir
	}
	return opts, nil
}

// newLogger returns a debug logger on stderr when verbose, otherwise a
// logger that discards everything.
func newLogger(opts Options, stderr io.Writer) *slog.Logger {
	if !opts.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
