package commands

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gfr",
	Short: "go-frame-rewrite - Call/Return frame transformation for dataflow graphs",
	Long: `go-frame-rewrite rewrites function call sites in a dataflow graph into
inlined bodies bracketed by Call and Return frame markers, so a runtime
can execute recursive functions by matching frames dynamically.

Commands:
  rewrite     Run the frame transformation over a graph document
  inspect     Summarize a graph document and its call sites
  render      Export a graph document as an image via graphviz
  doctor      Check configuration and verify a rewritten graph
  init        Initialize gfr configuration

Use "gfr [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Add subcommands
	RootCmd.AddCommand(rewriteCmd)
	RootCmd.AddCommand(inspectCmd)
	RootCmd.AddCommand(renderCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(initCmd)
}
