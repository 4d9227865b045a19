package commands

import (
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-frame-rewrite/internal/config"
	"github.com/l3aro/go-frame-rewrite/pkg/graph"
	"github.com/l3aro/go-frame-rewrite/pkg/graphio"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [graph]",
	Short: "Export a graph document as an image via graphviz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		return runRender(args[0], out, format)
	},
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "Output image path (required)")
	renderCmd.Flags().String("format", "", "Output format (dot, svg, png)")
	_ = renderCmd.MarkFlagRequired("out")
}

func runRender(path, out, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if format == "" {
		format = cfg.RenderFormat
	}

	g, err := graphio.Load(path)
	if err != nil {
		return err
	}

	gv := graphviz.New()
	render, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("failed to initialize graphviz: %w", err)
	}
	defer func() {
		render.Close()
		gv.Close()
	}()

	// One rendered node per graph node; markers carry their frame in
	// the label so matching Call/Return pairs are easy to spot.
	nodes := make(map[string]*cgraph.Node)
	for _, n := range g.Nodes {
		rn, err := render.CreateNode(n.Name)
		if err != nil {
			return fmt.Errorf("failed to create render node %s: %w", n.Name, err)
		}
		label := fmt.Sprintf("%s\n%s", n.Name, n.Op)
		if n.Op == graph.OpCall || n.Op == graph.OpReturn {
			label = fmt.Sprintf("%s\n%s [%s #%d]", n.Name, n.Op,
				n.GetAttr(graph.AttrFrameName).GetStr(), n.GetAttr(graph.AttrCallID).GetInt())
		}
		rn.SetLabel(label)
		nodes[n.Name] = rn
	}

	for _, n := range g.Nodes {
		for i, in := range n.Input {
			from, ok := nodes[graph.NodeName(in)]
			if !ok {
				continue
			}
			edgeID := fmt.Sprintf("%s-%d", n.Name, i)
			edge, err := render.CreateEdge(edgeID, from, nodes[n.Name])
			if err != nil {
				return fmt.Errorf("failed to create render edge %s: %w", edgeID, err)
			}
			if graph.IsControlInput(in) {
				edge.SetLabel("ctrl")
			}
		}
	}

	if err := gv.RenderFilename(render, graphviz.Format(format), out); err != nil {
		return fmt.Errorf("failed to render %s: %w", out, err)
	}
	return nil
}
