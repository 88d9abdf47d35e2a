package expansion

import (
	"fmt"

	"github.com/npillmayer/rowtree/tree"
)

// Policy decides whether a node is expanded by default. Policies are only
// asked for nodes which have children; leaves are collapsed.
type Policy interface {
	Expands(n *tree.Node) bool
}

// All is the depth value expanding every node.
const All = -1

type depthPolicy int

// Depth returns a policy expanding every node with a depth less than d.
// Depth(0) collapses everything, Depth(All) expands everything.
func Depth(d int) Policy {
	return depthPolicy(d)
}

func (d depthPolicy) Expands(n *tree.Node) bool {
	return d < 0 || n.Depth < int(d)
}

func (d depthPolicy) String() string {
	if d < 0 {
		return "depth(all)"
	}
	return fmt.Sprintf("depth(%d)", int(d))
}

// PredicateFunc is a per-node expansion decision.
type PredicateFunc func(n *tree.Node) bool

type predicatePolicy PredicateFunc

// Predicate returns a policy asking fn for every node which has children.
// A nil fn collapses everything.
func Predicate(fn PredicateFunc) Policy {
	return predicatePolicy(fn)
}

func (p predicatePolicy) Expands(n *tree.Node) bool {
	if p == nil {
		return false
	}
	return p(n)
}

func (p predicatePolicy) String() string {
	return "predicate"
}

// expands applies policy p to node n.
func expands(p Policy, n *tree.Node) bool {
	if p == nil || !n.HasChildren() {
		return false
	}
	return p.Expands(n)
}
