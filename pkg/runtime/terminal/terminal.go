package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/page-atlas/pkg/events"
	"github.com/de-tools/page-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/page-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// CLI represents the command-line interface
type CLI struct {
	inspector *inspect.Inspector
	table     *export.Reporter
	compact   *Reporter
	rootCmd   *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Inspector *inspect.Inspector
	Output    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Inspector == nil {
		opts.Inspector = inspect.NewInspector(inspect.NewHTTPFetcher(), nil, events.NopPublisher{})
	}

	cli := &CLI{
		inspector: opts.Inspector,
		table:     export.NewReporter(opts.Output),
		compact:   NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page-atlas",
		Short: "Page inspection tool",
	}

	cmd.AddCommand(commands.NewInspectCmd(cli.inspector, cli.table, cli.compact))
	cmd.AddCommand(commands.NewChecklistsCmd())

	return cmd
}
