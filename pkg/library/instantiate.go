package library

import (
	"errors"
	"fmt"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
)

// ErrInvalidArgument marks instantiation failures the caller handed us:
// an argument type that can be resolved neither statically nor through
// its type_attr reference, or a body missing a declared output.
var ErrInvalidArgument = errors.New("invalid argument")

// InputArg is an instantiated formal input: the body node acting as the
// argument plus its resolved type.
type InputArg struct {
	Name string
	Type graph.DataType
}

// OutputArg is an instantiated output: the body node producing it plus
// its resolved type.
type OutputArg struct {
	Name string
	Type graph.DataType
}

// Body is a working copy of a function body with polymorphic types
// resolved against one instantiation attribute set.
type Body struct {
	Nodes   []*graph.Node
	Inputs  []InputArg
	Outputs []OutputArg
}

// ResolveArgType resolves a formal argument's data type: its static
// type if declared, otherwise the type named by its type_attr in the
// instantiation attributes.
func ResolveArgType(arg graph.ArgDef, attrs map[string]*graph.AttrValue) (graph.DataType, error) {
	if arg.Type.Valid() {
		return arg.Type, nil
	}
	if arg.TypeAttr != "" {
		if v, ok := attrs[arg.TypeAttr]; ok && v.GetType().Valid() {
			return v.GetType(), nil
		}
	}
	return graph.DTInvalid, fmt.Errorf("%w: argument %q", ErrInvalidArgument, arg.Name)
}

// Instantiate produces a working copy of fdef's body resolved against
// the given instantiation attributes. Input arguments without a body
// node are materialized as _Arg placeholders so that every formal input
// has a node the inliner can rewrite. Outputs are located by the
// signature convention: the body node named after each output argument.
func Instantiate(fdef *graph.FunctionDef, attrs map[string]*graph.AttrValue) (*Body, error) {
	body := &Body{}

	present := make(map[string]bool, len(fdef.Body))
	for _, n := range fdef.Body {
		present[n.Name] = true
	}

	for _, arg := range fdef.Signature.InputArgs {
		t, err := ResolveArgType(arg, attrs)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", fdef.Name(), err)
		}
		body.Inputs = append(body.Inputs, InputArg{Name: arg.Name, Type: t})
		if !present[arg.Name] {
			placeholder := &graph.Node{Name: arg.Name, Op: graph.OpArg}
			placeholder.SetAttr(graph.AttrT, graph.TypeAttr(t))
			body.Nodes = append(body.Nodes, placeholder)
		}
	}

	for _, n := range fdef.Body {
		body.Nodes = append(body.Nodes, n.Copy())
	}

	for _, arg := range fdef.Signature.OutputArgs {
		t, err := ResolveArgType(arg, attrs)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", fdef.Name(), err)
		}
		if !present[arg.Name] {
			return nil, fmt.Errorf("%w: function %q has no body node for output %q",
				ErrInvalidArgument, fdef.Name(), arg.Name)
		}
		body.Outputs = append(body.Outputs, OutputArg{Name: arg.Name, Type: t})
	}

	return body, nil
}
