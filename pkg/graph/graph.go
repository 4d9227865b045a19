package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Versions records the producer version of the graph document.
type Versions struct {
	Producer int `yaml:"producer" msgpack:"producer"`
}

// ArgDef is a formal input or output argument of a function signature.
// Type is either set statically or resolved through the TypeAttr
// indirection against the instantiation attributes.
type ArgDef struct {
	Name     string   `yaml:"name" msgpack:"name"`
	Type     DataType `yaml:"type,omitempty" msgpack:"type,omitempty"`
	TypeAttr string   `yaml:"type_attr,omitempty" msgpack:"type_attr,omitempty"`
}

// Signature declares a function's name and ordered arguments.
type Signature struct {
	Name       string   `yaml:"name" msgpack:"name"`
	InputArgs  []ArgDef `yaml:"input_args,omitempty" msgpack:"input_args,omitempty"`
	OutputArgs []ArgDef `yaml:"output_args,omitempty" msgpack:"output_args,omitempty"`
}

// FunctionDef is a library entry: a signature, instantiation attributes
// and a body graph. Body nodes with op _Retval mark outputs; the node
// carrying an output is named after the corresponding output argument.
type FunctionDef struct {
	Signature Signature             `yaml:"signature" msgpack:"signature"`
	Attrs     map[string]*AttrValue `yaml:"attrs,omitempty" msgpack:"attrs,omitempty"`
	Body      []*Node               `yaml:"body,omitempty" msgpack:"body,omitempty"`
}

// Name returns the function's signature name.
func (f *FunctionDef) Name() string { return f.Signature.Name }

// Copy returns a deep copy of the function definition.
func (f *FunctionDef) Copy() *FunctionDef {
	out := &FunctionDef{
		Signature: Signature{
			Name:       f.Signature.Name,
			InputArgs:  append([]ArgDef(nil), f.Signature.InputArgs...),
			OutputArgs: append([]ArgDef(nil), f.Signature.OutputArgs...),
		},
		Attrs: CopyAttrs(f.Attrs),
	}
	for _, n := range f.Body {
		out.Body = append(out.Body, n.Copy())
	}
	return out
}

// Graph is an ordered sequence of nodes plus the producer version and
// the function library the nodes may call into.
type Graph struct {
	Nodes     []*Node        `yaml:"nodes" msgpack:"nodes"`
	Versions  Versions       `yaml:"versions" msgpack:"versions"`
	Functions []*FunctionDef `yaml:"functions,omitempty" msgpack:"functions,omitempty"`
}

// AddNode appends a node to the graph and returns it.
func (g *Graph) AddNode(n *Node) *Node {
	g.Nodes = append(g.Nodes, n)
	return n
}

// Find returns the node with the given name, or nil.
func (g *Graph) Find(name string) *Node {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Copy returns a deep copy of the graph.
func (g *Graph) Copy() *Graph {
	out := &Graph{Versions: g.Versions}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, n.Copy())
	}
	for _, f := range g.Functions {
		out.Functions = append(out.Functions, f.Copy())
	}
	return out
}

// Summarize renders a short human-readable listing of the graph: one
// line per node plus op counts, in the style used by debug logs.
func Summarize(g *Graph) string {
	var sb strings.Builder
	opCount := make(map[string]int)
	for _, n := range g.Nodes {
		opCount[n.Op]++
		sb.WriteString(fmt.Sprintf("%s = %s(%s)\n", n.Name, n.Op, strings.Join(n.Input, ", ")))
	}
	ops := make([]string, 0, len(opCount))
	for op := range opCount {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	sb.WriteString(fmt.Sprintf("%d nodes", len(g.Nodes)))
	for _, op := range ops {
		sb.WriteString(fmt.Sprintf(" | %s x%d", op, opCount[op]))
	}
	sb.WriteString("\n")
	return sb.String()
}
