// Package main implements the go-frame-rewrite CLI (gfr).
// It provides commands for rewriting, inspecting and rendering dataflow
// graph documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-frame-rewrite/cmd/gfr/commands"
)

var (
	version   = "dev"
	buildTime = ""
)

func main() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gfr %s", version)
			if buildTime != "" {
				fmt.Printf(" (built %s)", buildTime)
			}
			fmt.Println()
		},
	}
	commands.RootCmd.AddCommand(versionCmd)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
