package graph

import (
	"testing"
)

func TestParseTensorID(t *testing.T) {
	tests := []struct {
		input string
		node  string
		port  int
	}{
		{"a", "a", 0},
		{"a:0", "a", 0},
		{"a:2", "a", 2},
		{"^a", "a", -1},
		{"scope/a:1", "scope/a", 1},
		{"weird:name", "weird:name", 0}, // non-numeric suffix is part of the name
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id := ParseTensorID(tt.input)
			if id.Node != tt.node || id.Port != tt.port {
				t.Errorf("ParseTensorID(%q) = {%q, %d}, want {%q, %d}",
					tt.input, id.Node, id.Port, tt.node, tt.port)
			}
		})
	}
}

func TestTensorIDString(t *testing.T) {
	tests := []struct {
		id   TensorID
		want string
	}{
		{TensorID{Node: "a", Port: 0}, "a"},
		{TensorID{Node: "a", Port: 3}, "a:3"},
		{TensorID{Node: "a", Port: -1}, "^a"},
	}

	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("TensorID%+v.String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestAddPrefixToNodeName(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"x", "F", "F/x"},
		{"x:1", "F", "F/x:1"},
		{"^x", "F", "^F/x"},
		{"scope/x", "F", "F/scope/x"},
	}

	for _, tt := range tests {
		if got := AddPrefixToNodeName(tt.name, tt.prefix); got != tt.want {
			t.Errorf("AddPrefixToNodeName(%q, %q) = %q, want %q", tt.name, tt.prefix, got, tt.want)
		}
	}
}

func TestControlInputHelpers(t *testing.T) {
	if !IsControlInput("^a") {
		t.Error("IsControlInput(^a) = false, want true")
	}
	if IsControlInput("a:1") {
		t.Error("IsControlInput(a:1) = true, want false")
	}
	if got := AsControlDependency("a"); got != "^a" {
		t.Errorf("AsControlDependency(a) = %q, want ^a", got)
	}
	if got := NodeName("^scope/a"); got != "scope/a" {
		t.Errorf("NodeName(^scope/a) = %q, want scope/a", got)
	}
}

func TestNodeInputAccessors(t *testing.T) {
	n := &Node{Name: "n", Op: "Op", Input: []string{"a", "b:1", "^c"}}

	data := n.DataInputs()
	if len(data) != 2 || data[0] != "a" || data[1] != "b:1" {
		t.Errorf("DataInputs() = %v, want [a b:1]", data)
	}
	ctrl := n.ControlInputs()
	if len(ctrl) != 1 || ctrl[0] != "c" {
		t.Errorf("ControlInputs() = %v, want [c]", ctrl)
	}
	if !n.HasInput("^c") || n.HasInput("c") {
		t.Error("HasInput matches the exact reference form")
	}
}
