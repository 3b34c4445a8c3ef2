package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/config"
)

// ConfigInitCmd writes a config file holding the defaults
type ConfigInitCmd struct {
	Path  string `arg:"" optional:"" help:"Where to write the config file. Defaults to the standard location."`
	Force bool   `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(ctx *cli.Context) error {
	path := c.Path
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return err
	}
	ctx.Printf("✓ Wrote default config to %s\n", path)
	return nil
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	out, err := ctx.Config.YAML()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	source := ctx.Config.Source()
	if source == "" {
		source = "defaults (no config file found)"
	}
	ctx.Printf("# source: %s\n", source)
	ctx.Printf("%s", out)
	return nil
}
