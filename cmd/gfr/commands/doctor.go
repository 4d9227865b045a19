package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-frame-rewrite/internal/config"
	"github.com/l3aro/go-frame-rewrite/pkg/graph"
	"github.com/l3aro/go-frame-rewrite/pkg/graphio"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor [graph]",
	Short: "Check configuration and verify a rewritten graph",
	Long: `Checks that the configuration loads and validates. When a graph
document is given, verifies the structural invariants a rewritten graph
must hold: unique node names, no deletion tombstones, paired Call and
Return markers, and consistent Identity/Merge fan-in.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return runDoctor(path)
	},
}

func runDoctor(path string) error {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	cfg, err := config.Load()
	if err != nil {
		bad.Printf("config: %v\n", err)
		return err
	}
	ok.Printf("config: ok (format=%s, render=%s)\n", cfg.DefaultFormat, cfg.RenderFormat)

	if path == "" {
		return nil
	}

	g, err := graphio.Load(path)
	if err != nil {
		bad.Printf("graph: %v\n", err)
		return err
	}
	issues := graph.Verify(g)
	if len(issues) == 0 {
		ok.Printf("graph: ok (%d nodes)\n", len(g.Nodes))
		return nil
	}
	for _, issue := range issues {
		bad.Printf("graph: %v\n", issue)
	}
	return fmt.Errorf("%d invariant violation(s) in %s", len(issues), path)
}
