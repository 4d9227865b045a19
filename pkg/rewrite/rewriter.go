package rewrite

import (
	"fmt"
	"sort"

	set "github.com/emirpasic/gods/sets/hashset"

	"github.com/l3aro/go-frame-rewrite/internal/log"
	"github.com/l3aro/go-frame-rewrite/pkg/graph"
)

// CallInfo aggregates one logical invocation: the forward call node
// and, when the graph pairs it with a SymbolicGradient node, the
// gradient call node.
type CallInfo struct {
	CallID    int64
	CallFrame string
	FCall     *graph.Node
	GCall     *graph.Node
}

// HasGradient reports whether the invocation carries a gradient call.
func (c *CallInfo) HasGradient() bool { return c.GCall != nil }

// transformResult remembers the markers minted for one transformed call
// node so Flush can reroute the node's remaining consumers.
type transformResult struct {
	callID    int64
	callFrame string
	callNodes []*graph.Node
	retNodes  []*graph.Node
}

// CallRewriter discovers call sites, drives the inliner, brackets every
// call with Call/Return markers and rewires consumers. It mutates the
// host graph in place and holds non-owning references to the graph and
// the context.
type CallRewriter struct {
	graph  *graph.Graph
	ctx    *Context
	logger log.Logger

	// transformedFunctions persists across driver iterations so that a
	// function body is inlined at most once per pass run.
	transformedFunctions map[string]FuncGradInfo

	outputMap        map[string]string
	transformedCalls map[string]*transformResult
	nodesToDelete    *set.Set
	nextCallID       int64
}

// NewCallRewriter builds a rewriter over the host graph. A nil logger
// falls back to the default logger.
func NewCallRewriter(g *graph.Graph, ctx *Context, logger log.Logger) *CallRewriter {
	if logger == nil {
		logger = log.Default()
	}
	return &CallRewriter{
		graph:                g,
		ctx:                  ctx,
		logger:               logger,
		transformedFunctions: make(map[string]FuncGradInfo),
		outputMap:            make(map[string]string),
		transformedCalls:     make(map[string]*transformResult),
		nodesToDelete:        set.New(),
	}
}

func (r *CallRewriter) allocCallID() int64 {
	id := r.nextCallID
	r.nextCallID++
	return id
}

// CollectCalls scans the host graph for call sites. Direct calls are
// registered per function name; SymbolicGradient nodes are stashed and
// paired with their forward call afterwards through the "f" attribute.
// A gradient whose forward function has no registered call is left
// alone; two gradients naming the same forward function are rejected as
// ambiguous.
func (r *CallRewriter) CollectCalls() ([]*CallInfo, error) {
	callMap := make(map[string]*CallInfo)
	var gradients []*graph.Node

	for _, n := range r.graph.Nodes {
		if graph.IsSymbolicGradient(n) {
			gradients = append(gradients, n)
			continue
		}
		if fdef := r.ctx.Find(n.Op); fdef != nil {
			callMap[n.Op] = &CallInfo{
				CallID:    r.allocCallID(),
				CallFrame: n.Op,
				FCall:     n,
			}
		}
	}

	for _, gcall := range gradients {
		ref := gcall.GetAttr(graph.AttrFunc).GetFunc()
		if ref == nil {
			continue
		}
		call, ok := callMap[ref.Name]
		if !ok {
			continue
		}
		if call.GCall != nil {
			return nil, fmt.Errorf("%w: multiple SymbolicGradient nodes reference function %q",
				ErrInvalidArgument, ref.Name)
		}
		call.GCall = gcall
	}

	calls := make([]*CallInfo, 0, len(callMap))
	for _, call := range callMap {
		calls = append(calls, call)
	}
	sort.Slice(calls, func(i, j int) bool { return calls[i].CallID < calls[j].CallID })
	return calls, nil
}

// TransformCall rewrites one invocation: it obtains (or reuses) the
// inlined body descriptor, brackets the forward call and, when present,
// the gradient call, then tombstones the originals. The gradient pass
// reuses the forward's marker arrays so shared positions are not
// duplicated.
func (r *CallRewriter) TransformCall(call *CallInfo) error {
	info, err := r.findCompatibleOrInline(call)
	if err != nil {
		return err
	}

	result := &transformResult{callID: call.CallID, callFrame: call.CallFrame}
	if err := r.transformNode(call, call.FCall, &info.F, result, false); err != nil {
		return err
	}
	r.markTransformed(call.FCall, result)

	if call.HasGradient() {
		gradResult := &transformResult{
			callID:    call.CallID,
			callFrame: call.CallFrame,
			callNodes: append([]*graph.Node(nil), result.callNodes...),
			retNodes:  append([]*graph.Node(nil), result.retNodes...),
		}
		if err := r.transformNode(call, call.GCall, &info.G, gradResult, true); err != nil {
			return err
		}
		r.markTransformed(call.GCall, gradResult)
	}
	return nil
}

// transformNode brackets one call node with markers for the given view
// of the inlined body. Positions already present in result (the shared
// forward prefix during a gradient pass) are kept as they are.
func (r *CallRewriter) transformNode(info *CallInfo, call *graph.Node, f *FuncInfo,
	result *transformResult, isGradient bool) error {

	dataInputs := call.DataInputs()
	if len(dataInputs) != len(f.Args) {
		return fmt.Errorf("%w: call %q has %d data inputs, function %q declares %d",
			ErrInternal, call.Name, len(dataInputs), info.CallFrame, len(f.Args))
	}

	// The gradient node's own outputs start after the shared forward
	// returns; the remap below is offset accordingly.
	nextReturn := 0
	if isGradient {
		nextReturn = len(result.retNodes)
	}

	for len(result.callNodes) < len(f.Args) {
		result.callNodes = append(result.callNodes, nil)
	}
	for i := range f.Args {
		if result.callNodes[i] != nil {
			continue
		}
		marker := &graph.Node{
			Name:   graph.AddPrefixToNodeName(fmt.Sprintf("Call_%d", i), call.Name),
			Op:     graph.OpCall,
			Device: call.Device,
			Input:  []string{dataInputs[i]},
		}
		marker.SetAttr(graph.AttrT, graph.TypeAttr(f.ArgTypes[i]))
		marker.SetAttr(graph.AttrFrameName, graph.StrAttr(info.CallFrame))
		marker.SetAttr(graph.AttrCallID, graph.IntAttr(info.CallID))
		marker.SetAttr(graph.AttrArgID, graph.IntAttr(int64(i)))
		marker.SetAttr(graph.AttrIsConstant, graph.BoolAttr(false))
		marker.SetAttr(graph.AttrIsGradient, graph.BoolAttr(isGradient))
		r.graph.AddNode(marker)
		result.callNodes[i] = marker

		if err := connectInput(marker, f.Args[i]); err != nil {
			return err
		}
	}

	// Project the call's control inputs onto every marker so upstream
	// control edges still gate each frame entry.
	seen := set.New()
	var controls []string
	for _, in := range call.Input {
		if graph.IsControlInput(in) && !seen.Contains(graph.NodeName(in)) {
			seen.Add(graph.NodeName(in))
			controls = append(controls, graph.NodeName(in))
		}
	}
	for _, marker := range result.callNodes {
		for _, ctrl := range controls {
			dep := graph.AsControlDependency(ctrl)
			if !marker.HasInput(dep) {
				marker.AddInput(dep)
			}
		}
	}

	for len(result.retNodes) < len(f.Rets) {
		result.retNodes = append(result.retNodes, nil)
	}
	for i := range f.Rets {
		if result.retNodes[i] != nil {
			continue
		}
		ret := &graph.Node{
			Name:   graph.AddPrefixToNodeName(fmt.Sprintf("Ret_%d", i), call.Name),
			Op:     graph.OpReturn,
			Device: call.Device,
			Input:  []string{f.Rets[i]},
		}
		ret.SetAttr(graph.AttrT, graph.TypeAttr(f.RetTypes[i]))
		ret.SetAttr(graph.AttrFrameName, graph.StrAttr(info.CallFrame))
		ret.SetAttr(graph.AttrCallID, graph.IntAttr(info.CallID))
		ret.SetAttr(graph.AttrArgID, graph.IntAttr(int64(i)))
		ret.SetAttr(graph.AttrIsGradient, graph.BoolAttr(isGradient))
		r.graph.AddNode(ret)
		result.retNodes[i] = ret
	}

	if r.ctx.IsFetchNode(call.Name) {
		// Keep the external tensor name alive: a fresh IdentityN under
		// the original call name syncs all returns.
		out := &graph.Node{Name: call.Name, Op: graph.OpIdentityN, Device: call.Device}
		out.SetAttr(graph.AttrT, graph.TypeListAttr(f.RetTypes...))
		for _, ret := range result.retNodes {
			out.AddInput(ret.Name)
		}
		r.graph.AddNode(out)
	} else {
		for i := nextReturn; i < len(f.Rets); i++ {
			r.replaceOutput(fmt.Sprintf("%s:%d", call.Name, i-nextReturn), result.retNodes[i].Name)
			if i == nextReturn {
				r.replaceOutput(call.Name, result.retNodes[i].Name)
			}
		}
	}

	// Dead propagation: a return may not fire before its frame has been
	// entered, so every argument marker of the same polarity gates it.
	for _, ret := range result.retNodes {
		for _, marker := range result.callNodes {
			if ret.GetAttr(graph.AttrIsGradient).GetBool() != marker.GetAttr(graph.AttrIsGradient).GetBool() {
				continue
			}
			dep := graph.AsControlDependency(marker.Name)
			if !ret.HasInput(dep) {
				ret.AddInput(dep)
			}
		}
	}

	r.logger.Debug("transformed call", "call", call.Name, "frame", info.CallFrame,
		"call_id", info.CallID, "gradient", isGradient)
	return nil
}

func (r *CallRewriter) replaceOutput(oldOutput, newOutput string) {
	r.outputMap[oldOutput] = newOutput
}

// markTransformed records the markers for the original call node and
// tombstones it: renamed under the deletion prefix, reset to NoOp with
// no inputs, and queued for compaction.
func (r *CallRewriter) markTransformed(n *graph.Node, result *transformResult) {
	r.transformedCalls[n.Name] = result
	n.Input = nil
	n.Op = graph.OpNoOp
	n.Name = graph.AddPrefixToNodeName(n.Name, graph.MarkToDeletePrefix)
	r.nodesToDelete.Add(n.Name)
}

// Flush compacts tombstoned nodes out of the graph and applies the
// output remap to every remaining input list. Control inputs that
// pointed at a transformed call are fanned out to all of its returns.
func (r *CallRewriter) Flush() {
	if len(r.transformedCalls) > 0 {
		last := len(r.graph.Nodes) - 1
		for i := last; i >= 0; i-- {
			if r.nodesToDelete.Contains(r.graph.Nodes[i].Name) {
				r.graph.Nodes[i], r.graph.Nodes[last] = r.graph.Nodes[last], r.graph.Nodes[i]
				last--
			}
		}
		r.graph.Nodes = r.graph.Nodes[:last+1]
	}

	if len(r.outputMap) > 0 || len(r.transformedCalls) > 0 {
		for _, n := range r.graph.Nodes {
			rewritten := make([]string, 0, len(n.Input))
			var retDeps []string
			changed := false
			for _, in := range n.Input {
				if mapped, ok := r.outputMap[in]; ok {
					rewritten = append(rewritten, mapped)
					changed = true
					continue
				}
				if graph.IsControlInput(in) {
					if result, ok := r.transformedCalls[graph.NodeName(in)]; ok {
						for _, ret := range result.retNodes {
							retDeps = append(retDeps, graph.AsControlDependency(ret.Name))
						}
						changed = true
						continue
					}
				}
				rewritten = append(rewritten, in)
			}
			if !changed {
				continue
			}
			for _, dep := range retDeps {
				dup := false
				for _, in := range rewritten {
					if in == dep {
						dup = true
						break
					}
				}
				if !dup {
					rewritten = append(rewritten, dep)
				}
			}
			n.Input = rewritten
		}
	}

	r.transformedCalls = make(map[string]*transformResult)
	r.outputMap = make(map[string]string)
	r.nodesToDelete.Clear()
}

// findCompatibleOrInline returns the inlined body descriptor for the
// called function, inlining it on first use and reusing the cached
// descriptor for every later call site of the same function.
func (r *CallRewriter) findCompatibleOrInline(call *CallInfo) (FuncGradInfo, error) {
	name := call.FCall.Op
	if info, ok := r.transformedFunctions[name]; ok {
		return info, nil
	}

	fdef := r.ctx.Find(name)
	if fdef == nil {
		return FuncGradInfo{}, fmt.Errorf("%w: function %q cannot be found or is not eligible for inlining",
			ErrInvalidArgument, name)
	}

	attrs := instantiationAttrs(fdef, call.FCall)
	device := call.FCall.Device

	var info FuncGradInfo
	var err error
	if call.HasGradient() {
		info, err = inlineFunctionAndGradient(r.ctx, fdef, attrs, device, r.graph)
	} else {
		info.F, err = inlineFunction(fdef, attrs, device, r.graph)
	}
	if err != nil {
		return FuncGradInfo{}, err
	}

	r.transformedFunctions[name] = info
	r.logger.Debug("inlined function body", "function", name, "gradient", call.HasGradient())
	return info, nil
}
