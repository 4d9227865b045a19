package rewrite

import (
	set "github.com/emirpasic/gods/sets/hashset"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
	"github.com/l3aro/go-frame-rewrite/pkg/library"
)

// gradSuffix pairs a function F with its gradient companion FGrad.
const gradSuffix = "Grad"

// Context filters the function library down to the entries eligible for
// inlining and records the fetch set whose node names must survive the
// pass unchanged. It holds non-owning references into the library.
type Context struct {
	lib          *library.Library
	candidates   map[string]*graph.FunctionDef
	fetchTensors *set.Set // node:port form
	fetchNodes   *set.Set // node form
}

// NewContext builds the inlining context for one pass run. A library
// entry is excluded when it is marked _noinline or _XlaCompile, or when
// its signature has no inputs or no outputs (the frame markers need at
// least one of each).
func NewContext(lib *library.Library, fetch []string) *Context {
	ctx := &Context{
		lib:          lib,
		candidates:   make(map[string]*graph.FunctionDef),
		fetchTensors: set.New(),
		fetchNodes:   set.New(),
	}
	for _, fdef := range lib.Functions() {
		if attrIsTrue(fdef, graph.AttrNoInline) || attrIsTrue(fdef, graph.AttrXlaCompile) {
			continue
		}
		if len(fdef.Signature.InputArgs) == 0 || len(fdef.Signature.OutputArgs) == 0 {
			continue
		}
		ctx.candidates[fdef.Name()] = fdef
	}
	for _, tensor := range fetch {
		ctx.fetchTensors.Add(tensor)
		ctx.fetchNodes.Add(graph.NodeName(tensor))
	}
	return ctx
}

func attrIsTrue(fdef *graph.FunctionDef, name string) bool {
	return fdef.Attrs[name].GetBool()
}

// HasCandidates reports whether any library entry survived filtering.
func (c *Context) HasCandidates() bool { return len(c.candidates) > 0 }

// Find returns the eligible definition for name, or nil.
func (c *Context) Find(name string) *graph.FunctionDef {
	return c.candidates[name]
}

// FindGradient returns the eligible gradient companion of name, or nil.
func (c *Context) FindGradient(name string) *graph.FunctionDef {
	return c.candidates[name+gradSuffix]
}

// IsFetchNode reports whether the node name backs a fetch tensor.
func (c *Context) IsFetchNode(name string) bool {
	return c.fetchNodes.Contains(name)
}

// AddFunction registers a new definition in the underlying library and
// marks it eligible for inlining.
func (c *Context) AddFunction(fdef *graph.FunctionDef) error {
	if err := c.lib.Add(fdef); err != nil {
		return err
	}
	c.candidates[fdef.Name()] = fdef
	return nil
}

// There are two ways a node can invoke a function:
//
// 1. Direct call: node.Op is the function's signature name and the
//    node's own attribute map instantiates it.
//
// 2. Indirect call: the function name arrives through a function
//    reference attribute (conventionally "f"), whose inner attribute
//    map instantiates it.

func isDirectFunctionCall(fdef *graph.FunctionDef, node *graph.Node) bool {
	return node.Op == fdef.Name()
}

func isIndirectFunctionCall(fdef *graph.FunctionDef, node *graph.Node) bool {
	ref := node.GetAttr(graph.AttrFunc).GetFunc()
	return ref != nil && ref.Name == fdef.Name()
}

// instantiationAttrs resolves the attribute set used to materialize
// polymorphic argument types for this call site.
func instantiationAttrs(fdef *graph.FunctionDef, node *graph.Node) map[string]*graph.AttrValue {
	if isDirectFunctionCall(fdef, node) {
		return node.Attr
	}
	if isIndirectFunctionCall(fdef, node) {
		return node.GetAttr(graph.AttrFunc).GetFunc().Attrs
	}
	return nil
}
