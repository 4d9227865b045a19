package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// TensorID identifies one output of a producer node. Port -1 denotes a
// control dependency.
type TensorID struct {
	Node string
	Port int
}

// String renders the tensor id back to input-reference form.
func (t TensorID) String() string {
	if t.Port == -1 {
		return "^" + t.Node
	}
	if t.Port == 0 {
		return t.Node
	}
	return fmt.Sprintf("%s:%d", t.Node, t.Port)
}

// ParseTensorID splits an input reference into producer name and port.
// "a" parses as port 0, "a:2" as port 2 and "^a" as a control edge
// (port -1).
func ParseTensorID(input string) TensorID {
	if strings.HasPrefix(input, "^") {
		return TensorID{Node: input[1:], Port: -1}
	}
	if idx := strings.LastIndex(input, ":"); idx >= 0 {
		if port, err := strconv.Atoi(input[idx+1:]); err == nil {
			return TensorID{Node: input[:idx], Port: port}
		}
	}
	return TensorID{Node: input, Port: 0}
}

// NodeName returns the producer node name of an input reference,
// stripping the control marker and the port suffix.
func NodeName(input string) string {
	return ParseTensorID(input).Node
}

// IsControlInput reports whether the input reference is a control edge.
func IsControlInput(input string) bool {
	return strings.HasPrefix(input, "^")
}

// AsControlDependency renders a node name as a control input reference.
func AsControlDependency(name string) string {
	return "^" + name
}

// AddPrefixToNodeName applies prefix to the producer part of an input
// reference or node name, preserving the control marker and port:
// AddPrefixToNodeName("x:1", "F") == "F/x:1".
func AddPrefixToNodeName(name, prefix string) string {
	if strings.HasPrefix(name, "^") {
		return "^" + AddPrefixToNodeName(name[1:], prefix)
	}
	return prefix + "/" + name
}
