package graph

import (
	"fmt"
	"strings"
)

// MarkToDeletePrefix is the tombstone prefix used by the rewriter while
// a node awaits compaction. It must never survive into a flushed graph.
const MarkToDeletePrefix = "$MarkToDelete$"

// Verify checks the structural invariants a rewritten graph must hold:
// unique node names, no deletion tombstones, well-formed Call/Return
// markers paired per frame and call id, and Identity/Merge fan-in
// consistency. It returns one error per violation.
func Verify(g *Graph) []error {
	var errs []error

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.Name] {
			errs = append(errs, fmt.Errorf("duplicate node name %q", n.Name))
		}
		seen[n.Name] = true
		if strings.HasPrefix(n.Name, MarkToDeletePrefix) {
			errs = append(errs, fmt.Errorf("tombstone node %q survived flush", n.Name))
		}
	}

	type frameKey struct {
		callID   int64
		gradient bool
	}
	calls := make(map[frameKey][]*Node)
	rets := make(map[frameKey][]*Node)
	frames := make(map[int64]string)

	for _, n := range g.Nodes {
		switch n.Op {
		case OpCall, OpReturn:
			if n.GetAttr(AttrT).GetType() == DTInvalid {
				errs = append(errs, fmt.Errorf("%s %q has no type attribute", n.Op, n.Name))
			}
			if n.GetAttr(AttrFrameName).GetStr() == "" {
				errs = append(errs, fmt.Errorf("%s %q has no frame_name", n.Op, n.Name))
			}
			id := n.GetAttr(AttrCallID).GetInt()
			frame := n.GetAttr(AttrFrameName).GetStr()
			if prev, ok := frames[id]; ok && prev != frame {
				errs = append(errs, fmt.Errorf("call_id %d spans frames %q and %q", id, prev, frame))
			}
			frames[id] = frame
			key := frameKey{callID: id, gradient: n.GetAttr(AttrIsGradient).GetBool()}
			if n.Op == OpCall {
				calls[key] = append(calls[key], n)
			} else {
				rets[key] = append(rets[key], n)
			}
		case OpIdentity:
			if len(n.DataInputs()) != 1 {
				errs = append(errs, fmt.Errorf("Identity %q has %d data inputs, want 1", n.Name, len(n.DataInputs())))
			}
		case OpMerge:
			in := len(n.DataInputs())
			if in < 2 {
				errs = append(errs, fmt.Errorf("Merge %q has %d data inputs, want >= 2", n.Name, in))
			}
			if got := n.GetAttr(AttrN).GetInt(); got != int64(in) {
				errs = append(errs, fmt.Errorf("Merge %q has N=%d, want %d", n.Name, got, in))
			}
		}
	}

	for key, cs := range calls {
		if len(rets[key]) == 0 {
			errs = append(errs, fmt.Errorf("call_id %d (gradient=%v) has %d Call nodes but no Return", key.callID, key.gradient, len(cs)))
		}
	}
	for key, rs := range rets {
		if len(calls[key]) == 0 {
			errs = append(errs, fmt.Errorf("call_id %d (gradient=%v) has %d Return nodes but no Call", key.callID, key.gradient, len(rs)))
		}
	}

	return errs
}
