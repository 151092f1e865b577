package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                     List all tasks
  todo list [common flags] [--ids]         List all tasks, numbered from 1
  todo add [common flags] <text...>        Create a task
  todo rm [common flags] <n>               Delete task n from the store
  todo ui [common flags]                   Open the interactive task page
  todo serve [common flags] [--addr <a>]   Serve the task page over HTTP
  todo help
  todo version

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the store base URL
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr

Config file: <config dir>/config.toml
Environment: TODO_BASE_URL, TODO_COLLECTION, TODO_TIMEOUT_SECONDS,
  TODO_CREDENTIALS_FILE, TODO_ACCESS_TOKEN, TODO_SYNC_DELETES,
  TODO_CLEAR_ON_SUBMIT, TODO_LISTEN, TODO_LOG_LEVEL
`
