package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/cli/backups"
	"github.com/julianstephens/keptword/internal/cli/promises"
	"github.com/julianstephens/keptword/internal/cli/system"
	"github.com/julianstephens/keptword/internal/config"
	"github.com/julianstephens/keptword/internal/constants"
	apperrors "github.com/julianstephens/keptword/internal/errors"
	"github.com/julianstephens/keptword/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	EnvFile string `help:"Load environment variables from this .env file." name:"env-file" type:"path"`
	Data    string `help:"Data location: SQLite database file, or directory for the file backend." type:"path"`
	Backend string `help:"Storage backend (sqlite|postgres|file)."`
	Debug   bool   `help:"Log debug output to stderr."`

	Add     promises.AddCmd     `cmd:"" help:"Record a promise someone made to you."`
	Edit    promises.EditCmd    `cmd:"" help:"Edit a promise."`
	Delete  promises.DeleteCmd  `cmd:"" help:"Delete a promise."`
	List    promises.ListCmd    `cmd:"" help:"List promises, soonest follow-up first."`
	Show    promises.ShowCmd    `cmd:"" help:"Show one promise in detail."`
	People  promises.PeopleCmd  `cmd:"" help:"List everyone who has made you a promise."`
	Overdue promises.OverdueCmd `cmd:"" help:"Show pending promises past their follow-up date."`
	Clear   promises.ClearCmd   `cmd:"" help:"Delete all promises."`
	Onboard promises.OnboardCmd `cmd:"" help:"Mark onboarding as complete."`
	Export  promises.ExportCmd  `cmd:"" help:"Export promises to a spreadsheet or JSON file."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Cfg    struct {
		Init system.ConfigInitCmd `cmd:"" help:"Write a config file with the default settings."`
		Show system.ConfigShowCmd `cmd:"" help:"Show the effective configuration." default:"1"`
	} `cmd:"" name:"config" help:"Manage configuration."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable." default:"1"`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Tui system.TuiCmd `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Keep track of the promises people make to you"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	apperrors.Fatal(run(ctx))
}

func run(ctx *kong.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: config.Dir(), Backend: cfg.Backend}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logger.Close()
	logger.Debug("Starting", "command", ctx.Command(), "config", cfg.Source())

	// Config and keyring commands work without opening any storage
	if needsNoBackend(ctx.Command()) {
		return ctx.Run(&cli.Context{Config: cfg, Out: os.Stdout, In: os.Stdin})
	}

	backend, err := cli.OpenBackend(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}

	appCtx, err := cli.NewContext(cfg, backend)
	if err != nil {
		backend.Close()
		return err
	}
	defer func() {
		if err := appCtx.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	return ctx.Run(appCtx)
}

// loadConfig reads the config file and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{ConfigFile: CLI.Config, EnvFile: CLI.EnvFile})
	if err != nil {
		return nil, err
	}

	if CLI.Backend != "" {
		cfg.Backend = strings.ToLower(CLI.Backend)
	}
	if CLI.Data != "" {
		cfg.DataPath = CLI.Data
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func needsNoBackend(command string) bool {
	return strings.HasPrefix(command, "config") || strings.HasPrefix(command, "keyring")
}
