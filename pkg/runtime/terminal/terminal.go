package terminal

import (
	"io"
	"os"

	"github.com/mslanden/marketpress/pkg/runtime/terminal/commands"
	terminalexport "github.com/mslanden/marketpress/pkg/runtime/terminal/export"
	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/services/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	exporter *export.Exporter
	regions  config.Registry
	reporter *terminalexport.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Exporter *export.Exporter
	Regions  config.Registry
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		exporter: opts.Exporter,
		regions:  opts.Regions,
		reporter: terminalexport.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marketpress",
		Short: "Market newsletter generation tool",
	}

	cmd.AddCommand(commands.NewExportCmd(cli.exporter, cli.regions, cli.reporter))
	cmd.AddCommand(commands.NewRegionsCmd(cli.regions))

	return cmd
}
