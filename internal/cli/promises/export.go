package promises

import (
	"fmt"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/export"
)

type ExportCmd struct {
	FilterFlags `embed:""`
	File        string `arg:"" help:"Destination file, or - for standard output."`
	Format      string `help:"Export format (xlsx|json). Defaults to the file extension, then the configured format."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format := c.Format
	if format == "" {
		format = export.FormatForPath(c.File, ctx.Config.Export.Format)
	}

	result := ctx.Journal.View(c.State())
	now := ctx.Journal.Now()

	if c.File == "-" {
		return export.Write(ctx.Stdout(), format, result.Entries, now)
	}

	if err := export.ToFile(c.File, format, result.Entries, now); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctx.Printf("✓ Exported %d promises to %s (%s)\n", len(result.Entries), c.File, format)
	return nil
}
