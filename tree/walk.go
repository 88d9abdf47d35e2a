package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"sort"
)

// ErrInvalidAction is returned if a traversal is started without an action.
var ErrInvalidAction = errors.New("traversal action is invalid")

// Action is a function type to operate on tree nodes during a traversal.
// parent is nil for top-level nodes, position is the index of n among its
// siblings.
type Action func(n *Node, parent *Node, position int) error

// TopDown traverses the tree in pre-order, starting at the top-level nodes.
// The traversal guarantees that parents are always processed before
// their children, and siblings in insertion order.
//
// If the action function returns an error for a node,
// descending the branch below this node is aborted. The last error
// occured is returned.
func (t *Table) TopDown(action Action) error {
	if action == nil {
		return ErrInvalidAction
	}
	var lasterror error
	var descend func(parent *Node, children []NodeID)
	descend = func(parent *Node, children []NodeID) {
		for position, id := range children {
			n := t.nodes[id]
			if err := action(n, parent, position); err != nil {
				tracer().Debugf("action for node %s returned: %v", n, err)
				lasterror = err
				continue // do not descend further
			}
			descend(n, n.children)
		}
	}
	descend(nil, t.roots)
	return lasterror
}

// BottomUp traverses all nodes of the tree in depth-descending order,
// i.e. in a single pass in reverse topological order. The traversal
// guarantees that parents are not processed before all of their children.
// Nodes of equal depth are visited in pre-order.
//
// If the action function returns an error for a node,
// the parent is processed regardless. The last error occured is returned.
func (t *Table) BottomUp(action Action) error {
	if action == nil {
		return ErrInvalidAction
	}
	order := make([]*Node, 0, len(t.nodes))
	t.Walk(func(n *Node) bool {
		order = append(order, n)
		return true
	})
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Depth > order[j].Depth
	})
	var lasterror error
	for _, n := range order {
		var parent *Node
		position := 0
		if n.Parent != NoParent {
			parent = t.nodes[n.Parent]
			position = parent.IndexOfChild(n.ID)
		} else {
			position = indexOf(t.roots, n.ID)
		}
		if err := action(n, parent, position); err != nil {
			lasterror = err
		}
	}
	return lasterror
}

// Walk visits all nodes in pre-order and insertion order, as long as f
// returns true.
func (t *Table) Walk(f func(*Node) bool) {
	var walk func(children []NodeID) bool
	walk = func(children []NodeID) bool {
		for _, id := range children {
			n := t.nodes[id]
			if !f(n) || !walk(n.children) {
				return false
			}
		}
		return true
	}
	walk(t.roots)
}

// CalcDescendants is an action for bottom-up processing. It adds each
// node's own descendant count to its parent's, plus one if the node is backed
// by a row. Descendant counts have to be zero before the traversal starts.
func CalcDescendants(n *Node, parent *Node, position int) error {
	if parent != nil {
		parent.DescendantCount += n.DescendantCount + n.countsAsDescendant()
	}
	return nil
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}
