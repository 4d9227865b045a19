package rewrite

import (
	"github.com/l3aro/go-frame-rewrite/internal/log"
	"github.com/l3aro/go-frame-rewrite/pkg/graph"
	"github.com/l3aro/go-frame-rewrite/pkg/library"
)

// Item is the input to one pass run: the host graph plus the fetch
// tensors whose node names must be preserved.
type Item struct {
	Graph *graph.Graph
	Fetch []string
}

// Result carries the rewritten graph and run statistics.
type Result struct {
	Graph            *graph.Graph
	Iterations       int
	TransformedCalls int
}

// Optimize rewrites every call site in the item's graph into inlined
// form bracketed by Call/Return markers and returns the new graph. The
// input graph is not modified; its versions and function library are
// preserved verbatim in the output.
func Optimize(item *Item) (*graph.Graph, error) {
	res, err := Run(item, nil)
	if err != nil {
		return nil, err
	}
	return res.Graph, nil
}

// Run is Optimize with an explicit logger and run statistics. It drives
// the rewriter to a fixed point: newly inlined bodies may expose fresh
// call ops, so discovery repeats until a sweep finds none.
func Run(item *Item, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}

	lib := library.New(item.Graph.Functions)
	ctx := NewContext(lib, item.Fetch)
	out := item.Graph.Copy()
	res := &Result{Graph: out}

	if !ctx.HasCandidates() {
		return res, nil
	}

	rewriter := NewCallRewriter(out, ctx, logger)
	for {
		calls, err := rewriter.CollectCalls()
		if err != nil {
			return nil, err
		}
		if len(calls) == 0 {
			break
		}
		res.Iterations++
		logger.Debug("collected call sites", "iteration", res.Iterations, "calls", len(calls))
		for _, call := range calls {
			if err := rewriter.TransformCall(call); err != nil {
				return nil, err
			}
			res.TransformedCalls++
		}
		rewriter.Flush()
	}
	rewriter.Flush()

	return res, nil
}
