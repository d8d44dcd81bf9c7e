package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/modswap/internal/modswap"
	"github.com/example/modswap/internal/modswap/config"
	"github.com/example/modswap/internal/modswap/domain"
)

// Menu entries, in display order.
var menuItems = []string{
	"1 → Enable mods",
	"2 → Disable mods",
	"3 → How to use",
	"0 → Exit",
}

const (
	menuEnable = iota
	menuDisable
	menuHelp
	menuExit
)

// app carries the state shared by all commands once flags are parsed.
type app struct {
	fs       afero.Fs
	prompter Prompter
	stdout   io.Writer
	stderr   io.Writer
	render   *Renderer

	opts Options
	mgr  *modswap.Manager
}

// NewRootCommand constructs the root Cobra command for modswap. Running it
// without a subcommand starts the interactive menu.
func NewRootCommand(fs afero.Fs, prompter Prompter, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		fs:       fs,
		prompter: prompter,
		stdout:   stdout,
		stderr:   stderr,
		render:   NewRenderer(stdout),
	}

	cmd := &cobra.Command{
		Use:   "modswap",
		Short: "Toggle game mods between the game folder and a backup folder",
		Long: "modswap moves the files and folders listed in modConfig.json between the game\n" +
			"directory and a backup directory, so mods can be switched off and on again.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.prepare(); err != nil {
				return err
			}
			return a.runMenu()
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addPersistentFlags(cmd.PersistentFlags())

	cmd.AddCommand(newToggleCommand(a, modswap.Enable))
	cmd.AddCommand(newToggleCommand(a, modswap.Disable))
	cmd.AddCommand(newStatusCommand(a))
	cmd.AddCommand(newGuideCommand(a))

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	opts, err := loadOptions(cmd.Flags())
	if err != nil {
		return err
	}
	a.opts = opts
	mgr, err := modswap.NewManager(a.fs, opts.Root, newLogger(opts, a.stderr),
		modswap.WithConfigName(opts.ConfigName),
		modswap.WithBackupDirName(opts.BackupDir))
	if err != nil {
		return err
	}
	a.mgr = mgr
	return nil
}

// prepare enforces the start-up requirements: the configuration file must
// exist and the backup directory is created when missing.
func (a *app) prepare() error {
	exists, err := a.mgr.ConfigExists()
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", a.mgr.ConfigPath(), err)
	}
	if !exists {
		return fmt.Errorf("%w beside the executable: %s", domain.ErrConfigMissing, a.mgr.ConfigPath())
	}
	created, err := a.mgr.InitInfra()
	if err != nil {
		return err
	}
	if created {
		a.render.Render(modswap.Info("'%s' folder created.", a.mgr.Paths().BackupName()))
	}
	return nil
}

func (a *app) confirm() modswap.ConfirmFunc {
	if a.opts.AssumeYes {
		return modswap.AlwaysConfirm
	}
	return func(target string) bool {
		a.render.Render(modswap.Warning("'%s' already exists.", target))
		ok, err := a.prompter.Confirm("Do you want to overwrite it? (y/n)", false)
		if err != nil {
			return false
		}
		return ok
	}
}

// toggle runs one enable/disable action and renders its report.
func (a *app) toggle(direction modswap.Direction) error {
	var (
		report *modswap.Report
		err    error
	)
	if direction == modswap.Enable {
		report, err = a.mgr.Enable(a.confirm())
	} else {
		report, err = a.mgr.Disable(a.confirm())
	}
	if err != nil {
		return err
	}
	a.render.Render(report.Messages()...)
	return nil
}

func (a *app) runMenu() error {
	for {
		a.header()
		idx, _, err := a.prompter.Select("Available actions", menuItems, "")
		if err != nil {
			if errors.Is(err, ErrPromptCancelled) {
				return nil
			}
			return err
		}

		switch idx {
		case menuEnable:
			a.runAction(modswap.Enable)
		case menuDisable:
			a.runAction(modswap.Disable)
		case menuHelp:
			a.guide()
		case menuExit:
			return nil
		default:
			a.render.Render(modswap.Warning("Unknown command. Try 1, 2, 3 or 0."))
		}

		if _, err := a.prompter.Prompt("Press Enter to return to the menu"); err != nil {
			if errors.Is(err, ErrPromptCancelled) {
				return nil
			}
			return err
		}
	}
}

// runAction never fails the menu loop; configuration problems are shown and
// control returns to the menu.
func (a *app) runAction(direction modswap.Direction) {
	if err := a.toggle(direction); err != nil {
		a.render.Render(actionError(err))
	}
}

func actionError(err error) modswap.Message {
	switch {
	case errors.Is(err, domain.ErrConfigMissing):
		return modswap.Error("Configuration not found: %v", err)
	case errors.Is(err, domain.ErrConfigParse):
		return modswap.Error("Configuration could not be read: %v", err)
	default:
		return modswap.Error("%v", err)
	}
}

func (a *app) header() {
	a.render.Rule()
	a.render.Title("modswap")
	a.render.Plain("Game directory: %s\n", a.mgr.Paths().ActiveRoot())
	a.render.Rule()
}

func newToggleCommand(a *app, direction modswap.Direction) *cobra.Command {
	use, short := "disable", "Move configured mods into the backup folder"
	if direction == modswap.Enable {
		use, short = "enable", "Restore configured mods from the backup folder"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.prepare(); err != nil {
				return err
			}
			return a.toggle(direction)
		},
	}
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where each configured mod currently lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.mgr.Status()
			if err != nil {
				return err
			}
			a.render.Render(report.Messages()...)
			return nil
		},
	}
}

func newGuideCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Explain how to set up and use modswap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.guide()
			return nil
		},
	}
}

func (a *app) guide() {
	paths := a.mgr.Paths()
	a.render.Rule()
	a.render.Title("How to use modswap")
	a.render.Rule()

	var b strings.Builder
	fmt.Fprintln(&b, "Required files:")
	fmt.Fprintf(&b, "  %-16s must be beside the executable\n", paths.ConfigName())
	fmt.Fprintf(&b, "  %-16s will be auto-created if missing\n", paths.BackupName())
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Commands (type the number and press Enter, or pick with the arrow keys):")
	fmt.Fprintf(&b, "  1 → Enable mods    restores files from %s\n", paths.BackupName())
	fmt.Fprintf(&b, "  2 → Disable mods   moves mods to %s\n", paths.BackupName())
	fmt.Fprintln(&b, "  3 → How to use     shows this help screen")
	fmt.Fprintln(&b, "  0 → Exit           closes the program")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%s example:\n", paths.ConfigName())
	example, _ := json.MarshalIndent(config.Example(), "", "  ")
	fmt.Fprintln(&b, string(example))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Notes:")
	fmt.Fprintln(&b, "  Paths must be relative to the game directory")
	fmt.Fprintln(&b, "  Supports folders and individual files")
	fmt.Fprintln(&b, "  Prompts before overwriting existing files (answer y or yes)")
	fmt.Fprintln(&b, "  Disabled mods keep their folder structure inside the backup folder")
	a.render.Plain("%s", b.String())
	a.render.Rule()
}
