package commands

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
	"github.com/l3aro/go-frame-rewrite/pkg/graphio"
	"github.com/l3aro/go-frame-rewrite/pkg/library"
	"github.com/l3aro/go-frame-rewrite/pkg/rewrite"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [graph]",
	Short: "Summarize a graph document and its call sites",
	Long: `Prints the node listing, op counts, eligible library functions and a
census of call sites (direct calls per function and the number of
SymbolicGradient nodes) without rewriting anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

func runInspect(path string) error {
	g, err := graphio.Load(path)
	if err != nil {
		return err
	}

	heading := color.New(color.FgCyan, color.Bold)
	fnName := color.New(color.FgGreen)
	callOp := color.New(color.FgYellow)

	heading.Println("Graph")
	fmt.Print(graph.Summarize(g))

	ctx := rewrite.NewContext(library.New(g.Functions), nil)

	heading.Println("\nLibrary")
	if len(g.Functions) == 0 {
		fmt.Println("  (empty)")
	}
	for _, fdef := range g.Functions {
		status := "eligible"
		if ctx.Find(fdef.Name()) == nil {
			status = "excluded"
		}
		fmt.Printf("  %s  %d in, %d out, %d body nodes  [%s]\n",
			fnName.Sprint(fdef.Name()),
			len(fdef.Signature.InputArgs), len(fdef.Signature.OutputArgs),
			len(fdef.Body), status)
	}

	direct := make(map[string]int)
	gradients := 0
	for _, n := range g.Nodes {
		if graph.IsSymbolicGradient(n) {
			gradients++
			continue
		}
		if ctx.Find(n.Op) != nil {
			direct[n.Op]++
		}
	}

	heading.Println("\nCall sites")
	names := make([]string, 0, len(direct))
	for name := range direct {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s  %d direct call(s)\n", callOp.Sprint(name), direct[name])
	}
	fmt.Printf("  %d SymbolicGradient node(s)\n", gradients)
	return nil
}
