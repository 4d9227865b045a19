package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-frame-rewrite/internal/config"
	"github.com/l3aro/go-frame-rewrite/internal/events"
	"github.com/l3aro/go-frame-rewrite/internal/log"
	"github.com/l3aro/go-frame-rewrite/pkg/graphio"
	"github.com/l3aro/go-frame-rewrite/pkg/rewrite"
)

// rewriteCmd represents the rewrite command
var rewriteCmd = &cobra.Command{
	Use:   "rewrite [graph]",
	Short: "Run the frame transformation over a graph document",
	Long: `Loads a graph document, inlines every eligible function call (and
paired gradient call) with Call/Return frame markers, and writes the
rewritten graph back out.

Fetch tensors named with --fetch keep their node names across the
rewrite so external bindings stay valid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRewrite(cmd, args[0])
	},
}

func init() {
	rewriteCmd.Flags().StringP("out", "o", "", "Output path (required)")
	rewriteCmd.Flags().StringArray("fetch", nil, "Fetch tensor (node:port), repeatable")
	rewriteCmd.Flags().String("events", "", "Append a run record to this event log")
	rewriteCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")
	_ = rewriteCmd.MarkFlagRequired("out")
}

func runRewrite(cmd *cobra.Command, path string) error {
	outPath, _ := cmd.Flags().GetString("out")
	fetch, _ := cmd.Flags().GetStringArray("fetch")
	eventsPath, _ := cmd.Flags().GetString("events")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if eventsPath == "" {
		eventsPath = cfg.EventsPath
	}

	logger := log.Default()
	if verbose || cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	g, err := graphio.LoadAs(path, graphio.DetectFormat(path, graphio.Format(cfg.DefaultFormat)))
	if err != nil {
		return err
	}

	spinner := log.NewProgressSpinner(fmt.Sprintf("Rewriting %s...", path))
	spinner.Start()
	res, err := rewrite.Run(&rewrite.Item{Graph: g, Fetch: fetch}, logger)
	spinner.Stop()
	if err != nil {
		if rewrite.IsInvalidArgument(err) {
			return fmt.Errorf("graph rejected: %w", err)
		}
		return err
	}

	if err := graphio.SaveAs(outPath, res.Graph, graphio.DetectFormat(outPath, graphio.Format(cfg.DefaultFormat))); err != nil {
		return err
	}
	logger.Info("rewrite complete", "nodes_before", len(g.Nodes), "nodes_after", len(res.Graph.Nodes),
		"iterations", res.Iterations, "calls", res.TransformedCalls, "out", outPath)

	if eventsPath != "" {
		rec := events.NewRecord(path)
		rec.NodesBefore = len(g.Nodes)
		rec.NodesAfter = len(res.Graph.Nodes)
		rec.Iterations = res.Iterations
		rec.TransformedCalls = res.TransformedCalls
		rec.Graph = res.Graph
		if err := events.NewWriter(eventsPath).Append(rec); err != nil {
			logger.Warn("failed to append run record", "path", eventsPath, "error", err)
		}
	}
	return nil
}
