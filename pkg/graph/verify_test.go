package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func markerNode(name, op string, callID int64, gradient bool) *Node {
	n := &Node{Name: name, Op: op, Input: []string{"x"}}
	n.SetAttr(AttrT, TypeAttr(DTInt32))
	n.SetAttr(AttrFrameName, StrAttr("F"))
	n.SetAttr(AttrCallID, IntAttr(callID))
	n.SetAttr(AttrArgID, IntAttr(0))
	n.SetAttr(AttrIsGradient, BoolAttr(gradient))
	return n
}

func TestVerifyCleanGraph(t *testing.T) {
	g := &Graph{Nodes: []*Node{
		{Name: "x", Op: "Placeholder"},
		markerNode("c", OpCall, 0, false),
		markerNode("r", OpReturn, 0, false),
	}}
	assert.Empty(t, Verify(g))
}

func TestVerifyFlagsDuplicateNames(t *testing.T) {
	g := &Graph{Nodes: []*Node{
		{Name: "x", Op: "Placeholder"},
		{Name: "x", Op: "Placeholder"},
	}}
	errs := Verify(g)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate")
}

func TestVerifyFlagsTombstones(t *testing.T) {
	g := &Graph{Nodes: []*Node{
		{Name: MarkToDeletePrefix + "/x", Op: OpNoOp},
	}}
	errs := Verify(g)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "tombstone")
}

func TestVerifyFlagsUnpairedMarkers(t *testing.T) {
	g := &Graph{Nodes: []*Node{
		{Name: "x", Op: "Placeholder"},
		markerNode("c", OpCall, 0, false),
	}}
	errs := Verify(g)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no Return")
}

func TestVerifyFlagsMergeArity(t *testing.T) {
	merge := &Node{Name: "m", Op: OpMerge, Input: []string{"a", "b"}}
	merge.SetAttr(AttrN, IntAttr(3))
	g := &Graph{Nodes: []*Node{
		{Name: "a", Op: "Placeholder"},
		{Name: "b", Op: "Placeholder"},
		merge,
	}}
	errs := Verify(g)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "N=3")
}

func TestVerifyFlagsPolarityMismatch(t *testing.T) {
	// A gradient Call whose only Return has forward polarity.
	g := &Graph{Nodes: []*Node{
		{Name: "x", Op: "Placeholder"},
		markerNode("c", OpCall, 0, true),
		markerNode("r", OpReturn, 0, false),
	}}
	errs := Verify(g)
	assert.Len(t, errs, 2)
}
