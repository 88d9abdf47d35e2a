package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/rowtree/rows"
)

// NodeID identifies a node within a table. Nodes backed by a row use the
// row's identity, auto-generated nodes get a placeholder derived from
// their path.
type NodeID string

// NoParent is the parent of top-level nodes, i.e. the invisible super-root.
const NoParent NodeID = ""

// autoIDPrefix starts the identifier of every auto-generated node.
const autoIDPrefix = "auto-generated-row-"

// Path is a grouping path. The i-th key identifies a node's ancestor at
// depth i, the last key identifies the node itself.
type Path []string

// key returns an unambiguous string representation of a path, suitable
// as a map key.
func (p Path) key() string {
	var b strings.Builder
	for _, k := range p {
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}

// Equal is true if p and other consist of the same keys.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Node is the base type our tree is built of. Nodes are owned by a Table and
// should be treated as read-only by clients.
type Node struct {
	ID              NodeID   // unique within the table
	Path            Path     // grouping path of this node, never empty
	Depth           int      // 0 for top-level nodes
	Parent          NodeID   // NoParent for top-level nodes
	RowID           rows.ID  // identity of the backing row, empty if auto-generated
	Row             rows.Row // backing row, nil if auto-generated
	AutoGenerated   bool     // node has no backing row
	DescendantCount int      // number of row-backed descendants
	children        []NodeID // in insertion order
}

func newAutoNode(id NodeID, path Path, parent NodeID) *Node {
	return &Node{
		ID:            id,
		Path:          path,
		Depth:         len(path) - 1,
		Parent:        parent,
		AutoGenerated: true,
	}
}

func newRowNode(id rows.ID, r rows.Row, path Path, parent NodeID) *Node {
	return &Node{
		ID:     NodeID(id),
		Path:   path,
		Depth:  len(path) - 1,
		Parent: parent,
		RowID:  id,
		Row:    r,
	}
}

func (node *Node) String() string {
	if node == nil {
		return "(Node nil)"
	}
	return fmt.Sprintf("(Node %s #ch=%d #desc=%d)", node.ID, node.ChildCount(), node.DescendantCount)
}

// Key returns the node's own grouping key, i.e. the last key of its path.
func (node *Node) Key() string {
	return node.Path[len(node.Path)-1]
}

// ChildCount returns the number of children-nodes for a node.
func (node *Node) ChildCount() int {
	return len(node.children)
}

// HasChildren is true for group nodes.
func (node *Node) HasChildren() bool {
	return len(node.children) > 0
}

// Child returns the identifier of the n-th child.
func (node *Node) Child(n int) (NodeID, bool) {
	if n < 0 || n >= len(node.children) {
		return NoParent, false
	}
	return node.children[n], true
}

// Children returns a copy of the children identifiers, in insertion order.
func (node *Node) Children() []NodeID {
	ch := make([]NodeID, len(node.children))
	copy(ch, node.children)
	return ch
}

// IndexOfChild returns the index of a child within the list of children
// of node, or -1.
func (node *Node) IndexOfChild(id NodeID) int {
	for i, ch := range node.children {
		if ch == id {
			return i
		}
	}
	return -1
}

// countsAsDescendant is true for nodes which contribute to their ancestors'
// descendant count.
func (node *Node) countsAsDescendant() int {
	if node.AutoGenerated {
		return 0
	}
	return 1
}

func (node *Node) clone() *Node {
	n := *node
	n.children = make([]NodeID, len(node.children))
	copy(n.children, node.children)
	return &n
}

// --- Children slices -------------------------------------------------------

func appendChild(chs []NodeID, id NodeID) []NodeID {
	return append(chs, id)
}

func removeChild(chs []NodeID, id NodeID) []NodeID {
	for i, ch := range chs {
		if ch == id {
			return append(chs[:i], chs[i+1:]...)
		}
	}
	return chs
}

func replaceChild(chs []NodeID, old, id NodeID) {
	for i, ch := range chs {
		if ch == old {
			chs[i] = id
			return
		}
	}
}
