package rewrite

import (
	"fmt"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
	"github.com/l3aro/go-frame-rewrite/pkg/library"
)

// FuncInfo describes one inlined function body inside the host graph.
// Args[i] is the argument sink fanning in every Call marker for the
// i-th parameter; Rets[i] is the fully-qualified tensor name of the
// i-th output produced by the body.
type FuncInfo struct {
	ArgTypes []graph.DataType
	RetTypes []graph.DataType
	Args     []*graph.Node
	Rets     []string
}

// FuncGradInfo bundles the forward view F and the gradient view G of a
// single inlined body. The first len(F.Args) sinks are shared between
// the two views; the remainder feed the gradient's adjoint inputs.
type FuncGradInfo struct {
	F FuncInfo
	G FuncInfo
}

// connectInput appends a marker as a new input of an argument sink.
// The sink starts life as an Identity; the moment a second call site
// feeds it, it becomes a Merge with its N attribute tracking fan-in.
func connectInput(from, to *graph.Node) error {
	if len(to.Input) == 1 {
		if !graph.IsIdentity(to) {
			return fmt.Errorf("%w: cannot add input to %s sink %q", ErrInternal, to.Op, to.Name)
		}
		to.Op = graph.OpMerge
	}
	to.AddInput(from.Name)
	if len(to.Input) > 1 {
		to.SetAttr(graph.AttrN, graph.IntAttr(int64(len(to.Input))))
	}
	return nil
}

// newArgSink emits the fan-in node for one formal parameter of an
// inlined body.
func newArgSink(g *graph.Graph, prefix string, i int, t graph.DataType, device string) *graph.Node {
	sink := &graph.Node{
		Name:   graph.AddPrefixToNodeName(fmt.Sprintf("Input_%d", i), prefix),
		Op:     graph.OpIdentity,
		Device: device,
	}
	sink.SetAttr(graph.AttrT, graph.TypeAttr(t))
	return g.AddNode(sink)
}

// placeBodyNode rewrites one instantiated body node into the host
// graph: input-use nodes become Identity reads of their argument sink,
// other nodes get their inputs prefixed, output markers become
// Identity, and sourceless nodes are pinned into the function's frame
// with control edges from the pin sinks.
func placeBodyNode(g *graph.Graph, n *graph.Node, prefix, device string,
	inputIndex map[string]int, sinks []*graph.Node, pins []*graph.Node) error {

	if idx, ok := inputIndex[n.Name]; ok {
		if len(n.Input) != 0 {
			return fmt.Errorf("%w: input node %q of function %q has %d inputs, want 0",
				ErrInternal, n.Name, prefix, len(n.Input))
		}
		n.Op = graph.OpIdentity
		n.AddInput(sinks[idx].Name)
	} else {
		for j, in := range n.Input {
			n.Input[j] = graph.AddPrefixToNodeName(in, prefix)
		}
		if graph.IsRetval(n) {
			n.Op = graph.OpIdentity
		}
		if len(n.Input) == 0 {
			for _, pin := range pins {
				n.AddInput(graph.AsControlDependency(pin.Name))
			}
		}
	}

	n.Name = graph.AddPrefixToNodeName(n.Name, prefix)
	if n.Device == "" {
		n.Device = device
	}
	g.AddNode(n)
	return nil
}

// inlineFunction emits a prefixed copy of fdef's instantiated body into
// the host graph and returns the descriptor of its sinks and outputs.
func inlineFunction(fdef *graph.FunctionDef, attrs map[string]*graph.AttrValue,
	device string, g *graph.Graph) (FuncInfo, error) {

	body, err := library.Instantiate(fdef, attrs)
	if err != nil {
		return FuncInfo{}, err
	}

	prefix := fdef.Name()
	argSize := len(fdef.Signature.InputArgs)
	f := FuncInfo{
		ArgTypes: make([]graph.DataType, argSize),
		Args:     make([]*graph.Node, argSize),
	}

	inputIndex := make(map[string]int, argSize)
	for i, in := range body.Inputs {
		inputIndex[in.Name] = i
		f.Args[i] = newArgSink(g, prefix, i, in.Type, device)
		f.ArgTypes[i] = in.Type
	}

	for _, n := range body.Nodes {
		if err := placeBodyNode(g, n, prefix, device, inputIndex, f.Args, f.Args); err != nil {
			return FuncInfo{}, err
		}
	}

	for _, out := range body.Outputs {
		f.Rets = append(f.Rets, graph.AddPrefixToNodeName(out.Name, prefix))
		f.RetTypes = append(f.RetTypes, out.Type)
	}
	return f, nil
}

// inlineFunctionAndGradient emits the instantiated body of fdef's
// gradient companion. The gradient recomputes the forward outputs, so
// a single body serves both views: the forward view F sees the first
// farg sinks and the first fret outputs, the gradient view G sees all
// of them plus the adjoint sinks and the input-adjoint outputs.
func inlineFunctionAndGradient(ctx *Context, fdef *graph.FunctionDef,
	attrs map[string]*graph.AttrValue, device string, g *graph.Graph) (FuncGradInfo, error) {

	gdef := ctx.FindGradient(fdef.Name())
	if gdef == nil {
		return FuncGradInfo{}, fmt.Errorf("%w: gradient of function %q cannot be found or is not eligible for inlining",
			ErrInvalidArgument, fdef.Name())
	}

	body, err := library.Instantiate(gdef, attrs)
	if err != nil {
		return FuncGradInfo{}, err
	}

	prefix := fdef.Name()
	fargSize := len(fdef.Signature.InputArgs)
	fretSize := len(fdef.Signature.OutputArgs)
	gargSize := len(gdef.Signature.InputArgs)
	gretSize := len(gdef.Signature.OutputArgs)
	if gargSize != fargSize+fretSize || gretSize != fargSize+fretSize {
		return FuncGradInfo{}, fmt.Errorf("%w: gradient %q arity (%d in, %d out) does not extend %q (%d in, %d out)",
			ErrInternal, gdef.Name(), gargSize, gretSize, fdef.Name(), fargSize, fretSize)
	}

	info := FuncGradInfo{
		F: FuncInfo{
			ArgTypes: make([]graph.DataType, fargSize),
			Args:     make([]*graph.Node, fargSize),
		},
		G: FuncInfo{
			ArgTypes: make([]graph.DataType, gargSize),
			Args:     make([]*graph.Node, gargSize),
		},
	}

	inputIndex := make(map[string]int, gargSize)
	for i, in := range body.Inputs {
		inputIndex[in.Name] = i
		sink := newArgSink(g, prefix, i, in.Type, device)
		info.G.Args[i] = sink
		info.G.ArgTypes[i] = in.Type
		if i < fargSize {
			info.F.Args[i] = sink
			info.F.ArgTypes[i] = in.Type
		}
	}

	// Constants and other sourceless nodes are pinned to the forward
	// inputs only, never to the adjoint sinks.
	pins := info.G.Args[:fargSize]
	for _, n := range body.Nodes {
		if err := placeBodyNode(g, n, prefix, device, inputIndex, info.G.Args, pins); err != nil {
			return FuncGradInfo{}, err
		}
	}

	for i, out := range body.Outputs {
		name := graph.AddPrefixToNodeName(out.Name, prefix)
		info.G.Rets = append(info.G.Rets, name)
		info.G.RetTypes = append(info.G.RetTypes, out.Type)
		if i < fretSize {
			info.F.Rets = append(info.F.Rets, name)
			info.F.RetTypes = append(info.F.RetTypes, out.Type)
		}
	}
	return info, nil
}
