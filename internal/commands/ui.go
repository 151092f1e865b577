package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"todo/internal/app"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd opens the interactive terminal page. It logs to the config
// directory's log file since the screen belongs to the page.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive task page" }
func (c *UICmd) Usage() string     { return "todo ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !logging.IsTerminal(out) {
		fmt.Fprintln(errOut, "error: ui requires a terminal")
		return exitcode.UserError
	}

	logger := zerolog.Nop()
	if err := cfg.EnsureDir(); err == nil {
		level := cfg.LogLevel
		if cfg.Debug {
			level = "debug"
		}
		fileLogger, f, err := logging.OpenFile(cfg.LogPath(), level)
		if err == nil {
			defer f.Close()
			logger = fileLogger
		}
	}

	composer := app.New(svc, logger, app.Options{SyncDeletes: cfg.SyncDeletes})
	if err := ui.Run(ctx, composer, logger, ui.Options{ClearOnSubmit: cfg.ClearOnSubmit}); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
