package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/web"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd serves the task page to browsers until interrupted.
type ServeCmd struct {
	addr string
}

// SetAddr sets the --addr flag (for testing).
func (c *ServeCmd) SetAddr(addr string) {
	c.addr = addr
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the task page over HTTP" }
func (c *ServeCmd) Usage() string     { return "todo serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsStore() bool  { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.Listen
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Quiet {
		level = "error"
	}
	logger := logging.New(errOut, logging.Options{Level: level, Console: logging.IsTerminal(errOut)})

	srv, err := web.New(svc, web.Config{
		Addr:          addr,
		ClearOnSubmit: cfg.ClearOnSubmit,
		SyncDeletes:   cfg.SyncDeletes,
	}, logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	// The listen address comes from --addr or the listen key; a bind
	// failure is reported like any other bad argument.
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
