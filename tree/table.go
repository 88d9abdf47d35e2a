package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strconv"

	"github.com/npillmayer/rowtree/rows"
)

// Table is the node table of a row tree: an arena of nodes, indexed by
// identifier and by path. The zero value is not usable; tables are created
// by Build.
type Table struct {
	nodes    map[NodeID]*Node
	byPath   map[string]NodeID // path key -> node
	roots    []NodeID          // top-level nodes in insertion order
	pathOf   PathFunc
	idOf     rows.IdentityFunc
	warnings []error
}

// Option is a type to help configuring tables at build time.
type Option func(*Table)

// WithIdentity sets the function deriving row identities. The default reads
// the row's "id" field.
//
// Use it like this:
//
//	t, err := tree.Build(rs, tree.SplitField("name", "."), tree.WithIdentity(rows.ByField("name")))
func WithIdentity(idOf rows.IdentityFunc) Option {
	return func(t *Table) {
		t.idOf = idOf
	}
}

func newTable(pathOf PathFunc, opts ...Option) *Table {
	t := &Table{
		nodes:  make(map[NodeID]*Node),
		byPath: make(map[string]NodeID),
		pathOf: pathOf,
		idOf:   rows.ByField(rows.DefaultIDField),
	}
	for _, option := range opts {
		option(t)
	}
	return t
}

// Empty returns a table without any nodes, ready for incremental updates.
func Empty(pathOf PathFunc, opts ...Option) *Table {
	return newTable(pathOf, opts...)
}

// --- Queries ---------------------------------------------------------------

// Len returns the number of nodes in the table, auto-generated ones included.
func (t *Table) Len() int {
	return len(t.nodes)
}

// RowCount returns the number of row-backed nodes.
func (t *Table) RowCount() int {
	cnt := 0
	for _, n := range t.nodes {
		cnt += n.countsAsDescendant()
	}
	return cnt
}

// Depth returns the number of levels of the tree, 0 for an empty tree.
func (t *Table) Depth() int {
	d := 0
	for _, n := range t.nodes {
		if n.Depth+1 > d {
			d = n.Depth + 1
		}
	}
	return d
}

// Lookup finds a node by identifier.
func (t *Table) Lookup(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// NodeForRow finds the node backed by the row with the given identity.
func (t *Table) NodeForRow(id rows.ID) (*Node, bool) {
	n, ok := t.nodes[NodeID(id)]
	if !ok || n.AutoGenerated {
		return nil, false
	}
	return n, true
}

// NodeAt finds the node for a path.
func (t *Table) NodeAt(path Path) (*Node, bool) {
	id, ok := t.byPath[path.key()]
	if !ok {
		return nil, false
	}
	return t.nodes[id], true
}

// Roots returns the top-level nodes in insertion order.
func (t *Table) Roots() []NodeID {
	r := make([]NodeID, len(t.roots))
	copy(r, t.roots)
	return r
}

// Children returns the children of a node in insertion order. For NoParent
// it returns the top-level nodes.
func (t *Table) Children(id NodeID) []NodeID {
	if id == NoParent {
		return t.Roots()
	}
	if n, ok := t.nodes[id]; ok {
		return n.Children()
	}
	return nil
}

// Warnings returns the non-fatal diagnostics collected while building and
// updating the table.
func (t *Table) Warnings() []error {
	return t.warnings
}

// PathFunc returns the path function the table has been built with.
func (t *Table) PathFunc() PathFunc {
	return t.pathOf
}

// Identity returns the identity function the table has been built with.
func (t *Table) Identity() rows.IdentityFunc {
	return t.idOf
}

// Clone returns a deep copy of the table structure. Rows are shared.
func (t *Table) Clone() *Table {
	c := &Table{
		nodes:    make(map[NodeID]*Node, len(t.nodes)),
		byPath:   make(map[string]NodeID, len(t.byPath)),
		roots:    make([]NodeID, len(t.roots)),
		pathOf:   t.pathOf,
		idOf:     t.idOf,
		warnings: append([]error(nil), t.warnings...),
	}
	for id, n := range t.nodes {
		c.nodes[id] = n.clone()
	}
	for k, id := range t.byPath {
		c.byPath[k] = id
	}
	copy(c.roots, t.roots)
	return c
}

// --- Structural primitives -------------------------------------------------

// placeholderID derives the identifier of an auto-generated node, avoiding
// identifiers already in use.
func (t *Table) placeholderID(path Path, reserved map[NodeID]bool) NodeID {
	base := autoIDPrefix
	for i, k := range path {
		if i > 0 {
			base += "-"
		}
		base += k
	}
	id := NodeID(base)
	for i := 1; t.taken(id, reserved); i++ {
		id = NodeID(base + "~" + strconv.Itoa(i))
	}
	return id
}

func (t *Table) taken(id NodeID, reserved map[NodeID]bool) bool {
	_, exists := t.nodes[id]
	return exists || reserved[id]
}

// link enters a new node into the table and attaches it to its parent.
func (t *Table) link(n *Node) {
	_, exists := t.nodes[n.ID]
	assertThat(!exists, "node %q already in table", n.ID)
	t.nodes[n.ID] = n
	t.byPath[n.Path.key()] = n.ID
	if n.Parent == NoParent {
		t.roots = appendChild(t.roots, n.ID)
		return
	}
	p := t.nodes[n.Parent]
	p.children = appendChild(p.children, n.ID)
}

// unlink removes a childless node from the table.
func (t *Table) unlink(n *Node) {
	assertThat(len(n.children) == 0, "cannot unlink node %q with children", n.ID)
	delete(t.nodes, n.ID)
	delete(t.byPath, n.Path.key())
	if n.Parent == NoParent {
		t.roots = removeChild(t.roots, n.ID)
		return
	}
	p := t.nodes[n.Parent]
	p.children = removeChild(p.children, n.ID)
}

// rekey changes the identifier of a node, keeping its position among its
// siblings and the links of its children.
func (t *Table) rekey(n *Node, id NodeID) {
	old := n.ID
	if old == id {
		return
	}
	_, exists := t.nodes[id]
	assertThat(!exists, "cannot re-key %q to %q: identifier in use", old, id)
	delete(t.nodes, old)
	n.ID = id
	t.nodes[id] = n
	t.byPath[n.Path.key()] = id
	if n.Parent == NoParent {
		replaceChild(t.roots, old, id)
	} else {
		replaceChild(t.nodes[n.Parent].children, old, id)
	}
	for _, ch := range n.children {
		t.nodes[ch].Parent = id
	}
}

// ancestors calls f for every ancestor of n, nearest first.
func (t *Table) ancestors(n *Node, f func(*Node)) {
	for pid := n.Parent; pid != NoParent; {
		p := t.nodes[pid]
		f(p)
		pid = p.Parent
	}
}
